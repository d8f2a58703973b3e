// Package speech provides the client-side synthesis orchestrator.
//
// The orchestrator assembles synthesis requests from text and voice
// preferences, tracks the request lifecycle, and manages the single live
// playable clip produced from the most recent successful response. The
// two synthesis endpoints are distinct entry points; this layer never
// switches between them based on text length.
package speech

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/book-expert/logger"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
)

// State describes where the orchestrator is in a request lifecycle.
type State int

// Orchestrator states. A finished request (succeeded or failed) returns
// to idle on the next user action; there is no automatic retry.
const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

// Validation errors, detected locally before any network traffic.
var (
	ErrNoText  = errors.New("no text to speak")
	ErrNoVoice = errors.New("no voice available")
)

// ErrSuperseded marks a response that arrived after a newer request was
// issued; its audio is discarded and no state changes.
var ErrSuperseded = errors.New("response superseded by a newer request")

// Synthesizer is the backend capability the orchestrator depends on.
type Synthesizer interface {
	Speak(ctx context.Context, req backend.SpeakRequest) (*backend.SpeechResult, error)
	SpeakLong(ctx context.Context, req backend.SpeakLongRequest) (*backend.SpeechResult, error)
}

// SpeakInput describes a single-shot synthesis action.
type SpeakInput struct {
	Text      string
	Voices    []backend.Voice
	UseCloned bool

	// Voice is an explicitly selected voice id; empty leaves the choice
	// to the token policy.
	Voice string

	// Language is the fixed language hint; empty requests auto-detection.
	Language string
}

// ReadInput describes a long-text synthesis action with explicit chunking
// and language-detection parameters.
type ReadInput struct {
	Text      string
	Voices    []backend.Voice
	UseCloned bool
	Voice     string
	Language  string

	AutoLanguage bool
	MaxChars     int
}

// Orchestrator drives synthesis requests and owns the resulting clip.
type Orchestrator struct {
	synth Synthesizer
	sink  Sink
	log   *logger.Logger

	mu      sync.Mutex
	state   State
	issued  uint64
	applied uint64
	clip    Clip
	engine  string
	message string
}

// New creates an orchestrator over a synthesizer and a clip sink.
func New(synth Synthesizer, sink Sink, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		synth: synth,
		sink:  sink,
		log:   log,
	}
}

// Speak issues a single-shot synthesis request. On success the previous
// clip is released and the new one installed; on failure the prior clip
// stays as it was.
func (o *Orchestrator) Speak(ctx context.Context, input SpeakInput) (Clip, error) {
	voice, err := o.validate(input.Text, input.Voices, input.Voice, input.UseCloned)
	if err != nil {
		return nil, err
	}

	seq := o.begin()

	result, err := o.synth.Speak(ctx, backend.SpeakRequest{
		Text:     input.Text,
		Voice:    voice.ID,
		Language: input.Language,
		Cloned:   input.UseCloned,
	})
	if err != nil {
		return nil, o.fail(ctx, seq, err)
	}

	return o.succeed(seq, result)
}

// Read issues a long-text synthesis request. The backend performs the
// chunking and concatenation; MaxChars is validated by the client layer.
func (o *Orchestrator) Read(ctx context.Context, input ReadInput) (Clip, error) {
	voice, err := o.validate(input.Text, input.Voices, input.Voice, input.UseCloned)
	if err != nil {
		return nil, err
	}

	language := input.Language
	if input.AutoLanguage {
		// The language hint is dropped so the backend detects it.
		language = ""
	}

	seq := o.begin()

	result, err := o.synth.SpeakLong(ctx, backend.SpeakLongRequest{
		Text:         input.Text,
		Voice:        voice.ID,
		Language:     language,
		AutoLanguage: input.AutoLanguage,
		MaxChars:     backend.ClampChunkChars(input.MaxChars),
	})
	if err != nil {
		return nil, o.fail(ctx, seq, err)
	}

	return o.succeed(seq, result)
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// Engine returns the engine name reported for the installed clip, empty
// when the backend did not report one.
func (o *Orchestrator) Engine() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.engine
}

// Message returns the normalized message of the most recent failure.
func (o *Orchestrator) Message() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.message
}

// Clip returns the currently installed playable clip, nil when none.
func (o *Orchestrator) Clip() Clip {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.clip
}

// Close releases the installed clip, if any.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	clip := o.clip
	o.clip = nil
	o.state = StateIdle
	o.mu.Unlock()

	if clip == nil {
		return nil
	}

	return clip.Release()
}

// validate applies the local guards: non-blank text and a resolvable
// voice. Failures never reach the network.
func (o *Orchestrator) validate(text string, voices []backend.Voice, preferred string, useCloned bool) (backend.Voice, error) {
	if strings.TrimSpace(text) == "" {
		return backend.Voice{}, ErrNoText
	}

	voice, ok := ResolvePreferredVoice(voices, preferred, useCloned)
	if !ok {
		return backend.Voice{}, ErrNoVoice
	}

	return voice, nil
}

// begin stamps a new request and moves to requesting.
func (o *Orchestrator) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.issued++
	o.state = StateRequesting

	return o.issued
}

// succeed installs a response unless a newer request was issued while it
// was in flight, in which case the audio is dropped unconverted.
func (o *Orchestrator) succeed(seq uint64, result *backend.SpeechResult) (Clip, error) {
	o.mu.Lock()

	if seq != o.issued || seq <= o.applied {
		o.mu.Unlock()

		return nil, ErrSuperseded
	}

	o.mu.Unlock()

	clip, err := o.sink.CreateClip(result.Audio)
	if err != nil {
		o.mu.Lock()
		o.state = StateFailed
		o.message = err.Error()
		o.mu.Unlock()

		return nil, err
	}

	o.mu.Lock()

	// A racing request may have been issued while the clip was being
	// materialized; it wins, and this clip is rolled back.
	if seq != o.issued {
		o.mu.Unlock()

		_ = clip.Release()

		return nil, ErrSuperseded
	}

	previous := o.clip
	o.clip = clip
	o.engine = result.Engine
	o.applied = seq
	o.state = StateSucceeded
	o.message = ""
	o.mu.Unlock()

	if previous != nil {
		releaseErr := previous.Release()
		if releaseErr != nil && o.log != nil {
			o.log.Warn("Failed to release superseded clip: %v", releaseErr)
		}
	}

	if o.log != nil {
		o.log.Info("Installed clip (%d bytes, engine %q)", len(result.Audio), result.Engine)
	}

	return clip, nil
}

// fail records a failure without touching the installed clip. An aborted
// request performs no state update at all.
func (o *Orchestrator) fail(ctx context.Context, seq uint64, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ctx.Err() != nil {
		if seq == o.issued {
			o.state = StateIdle
		}

		return err
	}

	if seq == o.issued {
		o.state = StateFailed
		o.message = err.Error()
	}

	return err
}
