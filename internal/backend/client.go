// Package backend provides the typed HTTP client for the cognomegafx speech
// backend.
//
// Every operation resolves the backend base URL at call time through the
// injected resolver, so a changed preference takes effect on the very next
// request. Responses are either decoded JSON structures or raw audio
// payloads; non-success statuses are normalized into a single
// human-readable message carried by a StatusError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// API endpoints and paths.
const (
	apiHealth     = "/health"
	apiVoices     = "/api/v1/voice/voices"
	apiSpeak      = "/api/v1/voice/speak"
	apiSpeakLong  = "/api/v1/voice/speak_long"
	apiClean      = "/api/v1/content/clean"
	apiCleanFile  = "/api/v1/content/clean_file"
	apiTranscribe = "/api/v1/voice/transcribe"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	headerEngine      = "X-TTS-Engine"
	contentTypeJSON   = "application/json"
	acceptAudio       = "audio/wav"
)

// Multipart form field names.
const (
	formFieldFile  = "file"
	formFieldAudio = "audio"
)

// Long-text chunking bounds. The server performs the actual chunking and
// concatenation; the client only guarantees the bound it sends is valid.
const (
	MinChunkChars     = 200
	MaxChunkChars     = 2000
	DefaultChunkChars = 500
)

// Static errors.
var (
	ErrTextEmpty  = errors.New("text cannot be empty")
	ErrVoiceEmpty = errors.New("voice cannot be empty")
	ErrEmptyAudio = errors.New("received empty audio data")
)

// BaseURLFunc resolves the backend base URL for a single call. It is
// invoked once per operation and never cached by the client.
type BaseURLFunc func() string

// FixedBaseURL returns a resolver that always yields the given URL.
func FixedBaseURL(url string) BaseURLFunc {
	return func() string { return url }
}

// Voice describes one selectable backend voice.
type Voice struct {
	// ID is the stable token used in synthesis requests.
	ID string `json:"id"`

	// Label is the human-readable name shown to the user.
	Label string `json:"label"`

	// Engine names the synthesis engine that owns this voice.
	Engine string `json:"engine"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

// HealthStatus reports backend reachability as sampled by a single probe.
type HealthStatus struct {
	Reachable bool
	Version   string
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

// SpeakRequest is the payload for single-shot synthesis. An empty Language
// asks the backend to auto-detect; Cloned selects the cloned-voice profile.
type SpeakRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language,omitempty"`
	Cloned   bool   `json:"cloned,omitempty"`
}

// SpeakLongRequest is the payload for long-text synthesis. The server
// chunks the text and concatenates the audio; MaxChars bounds the chunk
// size and is clamped client-side before the call.
type SpeakLongRequest struct {
	Text         string `json:"text"`
	Voice        string `json:"voice"`
	Language     string `json:"language,omitempty"`
	AutoLanguage bool   `json:"auto_language"`
	MaxChars     int    `json:"max_chars"`
}

// SpeechResult carries the raw audio payload of a synthesis call and the
// engine the backend reports having served it with.
type SpeechResult struct {
	Audio  []byte
	Engine string
}

// CleanedContent is the outcome of HTML cleaning, whether produced by the
// backend or synthesized locally when the endpoint is absent.
type CleanedContent struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Transcription is the recognized text for an uploaded audio clip.
type Transcription struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
}

// Client issues requests against the speech backend.
type Client struct {
	httpClient *http.Client
	resolve    BaseURLFunc
}

// NewClient creates a backend client. The resolver is consulted on every
// call; the timeout applies to all HTTP requests made by the client.
func NewClient(resolve BaseURLFunc, timeout time.Duration) *Client {
	return &Client{
		resolve: resolve,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// baseURL resolves the current base URL with trailing slashes stripped.
func (c *Client) baseURL() string {
	return strings.TrimRight(c.resolve(), "/")
}

// Health probes the backend health endpoint. It never returns an error:
// any transport failure or non-success status yields an unreachable
// status, which is what the liveness monitor wants.
func (c *Client) Health(ctx context.Context) HealthStatus {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL()+apiHealth,
		http.NoBody,
	)
	if err != nil {
		return HealthStatus{Reachable: false, Version: ""}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{Reachable: false, Version: ""}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthStatus{Reachable: false, Version: ""}
	}

	// The version is informational; a malformed body does not make a
	// responding backend unreachable.
	var parsed healthResponse

	_ = json.NewDecoder(resp.Body).Decode(&parsed)

	return HealthStatus{Reachable: true, Version: parsed.Version}
}

// Voices fetches the ordered list of selectable voices.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL()+apiVoices,
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var parsed voicesResponse

	err = json.NewDecoder(resp.Body).Decode(&parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	return parsed.Voices, nil
}

// Speak requests single-shot synthesis and returns the raw audio payload
// together with the serving engine reported in the response header.
func (c *Client) Speak(ctx context.Context, req SpeakRequest) (*SpeechResult, error) {
	if req.Text == "" {
		return nil, ErrTextEmpty
	}

	if req.Voice == "" {
		return nil, ErrVoiceEmpty
	}

	return c.speak(ctx, apiSpeak, req)
}

// SpeakLong requests long-text synthesis. The backend chunks the text and
// concatenates the audio; MaxChars is clamped into the valid range before
// the request is issued.
func (c *Client) SpeakLong(ctx context.Context, req SpeakLongRequest) (*SpeechResult, error) {
	if req.Text == "" {
		return nil, ErrTextEmpty
	}

	if req.Voice == "" {
		return nil, ErrVoiceEmpty
	}

	req.MaxChars = ClampChunkChars(req.MaxChars)

	return c.speak(ctx, apiSpeakLong, req)
}

// speak posts a synthesis payload and reads back the binary audio response.
func (c *Client) speak(ctx context.Context, path string, payload any) (*SpeechResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL()+path,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	req.Header.Set(headerContentType, contentTypeJSON)
	req.Header.Set(headerAccept, acceptAudio)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request to %s failed: %w", c.baseURL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	return &SpeechResult{
		Audio:  audio,
		Engine: resp.Header.Get(headerEngine),
	}, nil
}

// CleanHTML asks the backend to extract readable text from raw HTML. When
// the cleaning endpoint is absent the raw input is returned unchanged as
// already-clean text with an empty title; all other errors propagate.
func (c *Client) CleanHTML(ctx context.Context, html string) (CleanedContent, error) {
	payload, err := json.Marshal(map[string]string{"html": html})
	if err != nil {
		return CleanedContent{}, fmt.Errorf("failed to marshal clean request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL()+apiClean,
		bytes.NewReader(payload),
	)
	if err != nil {
		return CleanedContent{}, fmt.Errorf("failed to create clean request: %w", err)
	}

	req.Header.Set(headerContentType, contentTypeJSON)

	content, err := c.fetchCleaned(req)
	if IsEndpointMissing(err) {
		return CleanedContent{Title: "", Text: html}, nil
	}

	return content, err
}

// CleanHTMLFile uploads a file for cleaning. When the endpoint is absent
// the file's raw textual content is returned with the filename as title.
func (c *Client) CleanHTMLFile(ctx context.Context, name string, reader io.Reader) (CleanedContent, error) {
	// The raw content is needed up front for the degraded path.
	raw, err := io.ReadAll(reader)
	if err != nil {
		return CleanedContent{}, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	body, contentType, err := buildMultipart(formFieldFile, name, raw)
	if err != nil {
		return CleanedContent{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL()+apiCleanFile,
		body,
	)
	if err != nil {
		return CleanedContent{}, fmt.Errorf("failed to create clean request: %w", err)
	}

	req.Header.Set(headerContentType, contentType)

	content, err := c.fetchCleaned(req)
	if IsEndpointMissing(err) {
		return CleanedContent{Title: name, Text: string(raw)}, nil
	}

	return content, err
}

// fetchCleaned executes a prepared cleaning request and decodes the result.
func (c *Client) fetchCleaned(req *http.Request) (CleanedContent, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CleanedContent{}, fmt.Errorf("cleaning request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CleanedContent{}, c.statusError(resp)
	}

	var content CleanedContent

	err = json.NewDecoder(resp.Body).Decode(&content)
	if err != nil {
		return CleanedContent{}, fmt.Errorf("failed to decode cleaned content: %w", err)
	}

	return content, nil
}

// Transcribe uploads a finalized audio clip for speech-to-text. Errors
// propagate verbatim; there is no degraded path for transcription.
func (c *Client) Transcribe(ctx context.Context, name string, audio []byte) (Transcription, error) {
	body, contentType, err := buildMultipart(formFieldAudio, name, audio)
	if err != nil {
		return Transcription{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL()+apiTranscribe,
		body,
	)
	if err != nil {
		return Transcription{}, fmt.Errorf("failed to create transcribe request: %w", err)
	}

	req.Header.Set(headerContentType, contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Transcription{}, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Transcription{}, c.statusError(resp)
	}

	var parsed Transcription

	err = json.NewDecoder(resp.Body).Decode(&parsed)
	if err != nil {
		return Transcription{}, fmt.Errorf("failed to decode transcription: %w", err)
	}

	return parsed, nil
}

// statusError drains a non-success response into a StatusError carrying
// the normalized message.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	return &StatusError{
		Status:  resp.StatusCode,
		Message: NormalizeError(resp.StatusCode, body, http.StatusText(resp.StatusCode)),
	}
}

// buildMultipart assembles a single-field multipart form body.
func buildMultipart(field, name string, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	_, err = part.Write(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to write form data: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// ClampChunkChars forces a chunk-size bound into the valid range. Values
// at or below zero fall back to the default rather than the minimum, so an
// unset bound keeps the backend's documented behavior.
func ClampChunkChars(n int) int {
	if n <= 0 {
		return DefaultChunkChars
	}

	if n < MinChunkChars {
		return MinChunkChars
	}

	if n > MaxChunkChars {
		return MaxChunkChars
	}

	return n
}
