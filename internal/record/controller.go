// Package record provides the microphone recording controller: a
// toggle-driven capture of one audio clip, finalized to WAV and submitted
// to the transcription endpoint on stop.
package record

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/book-expert/logger"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
	"github.com/Bharath-kolekar/cognomegafxg/internal/wav"
)

const clipFileName = "clip.wav"

// ErrNotRecording is returned by Stop when no recording is in progress.
var ErrNotRecording = errors.New("not recording")

// Source is the microphone capability. Start acquires the device and
// begins delivering sample frames; Stop releases the device and closes
// the frames channel. The controller never touches audio hardware
// directly, so it stays testable without one.
type Source interface {
	Start(ctx context.Context) error
	Frames() <-chan []float32
	Stop() error
	SampleRate() int
}

// Transcriber is the backend capability a finalized clip is submitted to.
type Transcriber interface {
	Transcribe(ctx context.Context, name string, audio []byte) (backend.Transcription, error)
}

// Controller drives the recording cycle: idle, recording, back to idle.
type Controller struct {
	source      Source
	transcriber Transcriber
	log         *logger.Logger

	mu        sync.Mutex
	recording bool
	samples   []float32
	drained   chan struct{}
}

// New creates a recording controller.
func New(source Source, transcriber Transcriber, log *logger.Logger) *Controller {
	return &Controller{
		source:      source,
		transcriber: transcriber,
		log:         log,
	}
}

// Recording reports whether a capture is in progress.
func (c *Controller) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.recording
}

// Toggle starts a recording when idle and stops-and-transcribes when
// recording. The boolean result is true when a recording was started; a
// transcription is returned only on the stopping toggle.
func (c *Controller) Toggle(ctx context.Context) (*backend.Transcription, bool, error) {
	if c.Recording() {
		transcription, err := c.stop(ctx)

		return transcription, false, err
	}

	err := c.start(ctx)
	if err != nil {
		return nil, false, err
	}

	return nil, true, nil
}

// start acquires the microphone and begins accumulating frames. On any
// start failure the device is released and the controller stays idle.
func (c *Controller) start(ctx context.Context) error {
	err := c.source.Start(ctx)
	if err != nil {
		// No partial state may leak out of a failed start.
		_ = c.source.Stop()

		return fmt.Errorf("failed to start recording: %w", err)
	}

	c.mu.Lock()
	c.recording = true
	c.samples = c.samples[:0]
	c.drained = make(chan struct{})
	c.mu.Unlock()

	go c.collect()

	if c.log != nil {
		c.log.Info("Recording started")
	}

	return nil
}

// collect accumulates frames in arrival order until the source closes
// its channel.
func (c *Controller) collect() {
	for frame := range c.source.Frames() {
		c.mu.Lock()
		c.samples = append(c.samples, frame...)
		c.mu.Unlock()
	}

	c.mu.Lock()
	drained := c.drained
	c.mu.Unlock()

	close(drained)
}

// stop releases the microphone, finalizes the buffer into one WAV clip
// and submits it for transcription. The device is released even when the
// submission fails.
func (c *Controller) stop(ctx context.Context) (*backend.Transcription, error) {
	c.mu.Lock()

	if !c.recording {
		c.mu.Unlock()

		return nil, ErrNotRecording
	}

	c.recording = false
	drained := c.drained
	c.mu.Unlock()

	stopErr := c.source.Stop()
	if stopErr != nil {
		return nil, fmt.Errorf("failed to stop recording: %w", stopErr)
	}

	// The source has closed its channel; wait for the last frames to be
	// appended before finalizing.
	<-drained

	c.mu.Lock()
	clip := wav.FromFloat32(c.samples, c.source.SampleRate())
	c.samples = c.samples[:0]
	c.mu.Unlock()

	if c.log != nil {
		c.log.Info("Recording stopped (%d bytes), submitting for transcription", len(clip))
	}

	transcription, err := c.transcriber.Transcribe(ctx, clipFileName, clip)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return &transcription, nil
}
