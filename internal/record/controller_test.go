// Package record_test tests the recording controller with a fake capture
// source, so no audio hardware is involved.
package record_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
	"github.com/Bharath-kolekar/cognomegafxg/internal/record"
	"github.com/Bharath-kolekar/cognomegafxg/internal/wav"
)

var (
	errMicDenied     = errors.New("microphone access denied")
	errTranscription = errors.New("transcription backend down")
)

// fakeSource scripts microphone behavior. Frames pushed with emit are
// delivered in order; Stop closes the channel, mirroring the real source.
type fakeSource struct {
	mu         sync.Mutex
	frames     chan []float32
	startErr   error
	started    int
	stopped    int
	sampleRate int
}

func newFakeSource() *fakeSource {
	return &fakeSource{sampleRate: wav.CaptureSampleRate}
}

func (f *fakeSource) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.startErr != nil {
		return f.startErr
	}

	f.started++
	f.frames = make(chan []float32, 16)

	return nil
}

func (f *fakeSource) Frames() <-chan []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.frames
}

func (f *fakeSource) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped++

	if f.frames != nil {
		close(f.frames)
		f.frames = nil
	}

	return nil
}

func (f *fakeSource) SampleRate() int {
	return f.sampleRate
}

func (f *fakeSource) emit(frame []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frames <- frame
}

func (f *fakeSource) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stopped
}

// fakeTranscriber records the uploaded clip.
type fakeTranscriber struct {
	mu       sync.Mutex
	fail     bool
	lastName string
	lastClip []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, name string, audio []byte) (backend.Transcription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return backend.Transcription{}, errTranscription
	}

	f.lastName = name
	f.lastClip = audio

	return backend.Transcription{Text: "hello there", RequestID: "req-1"}, nil
}

func TestToggle_RecordStopTranscribe(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	transcriber := &fakeTranscriber{}
	controller := record.New(source, transcriber, nil)

	ctx := context.Background()

	transcription, started, err := controller.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Nil(t, transcription)
	assert.True(t, controller.Recording())

	source.emit([]float32{0.1, 0.2})
	source.emit([]float32{0.3})

	transcription, started, err = controller.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, started)
	require.NotNil(t, transcription)
	assert.Equal(t, "hello there", transcription.Text)
	assert.Equal(t, "req-1", transcription.RequestID)
	assert.False(t, controller.Recording())

	assert.Equal(t, "clip.wav", transcriber.lastName)

	// Three samples, accumulated in emission order, as one 16-bit WAV.
	assert.Len(t, transcriber.lastClip, wav.HeaderSize+3*2)
	assert.Equal(t, 1, source.stopCount(), "microphone released on stop")
}

func TestToggle_StartFailureStaysIdle(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.startErr = errMicDenied
	controller := record.New(source, &fakeTranscriber{}, nil)

	_, started, err := controller.Toggle(context.Background())
	require.ErrorIs(t, err, errMicDenied)
	assert.False(t, started)
	assert.False(t, controller.Recording())

	// The device is released defensively even on a failed start.
	assert.Equal(t, 1, source.stopCount())
}

func TestToggle_TranscriptionFailureStillReleasesMic(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	transcriber := &fakeTranscriber{fail: true}
	controller := record.New(source, transcriber, nil)

	ctx := context.Background()

	_, _, err := controller.Toggle(ctx)
	require.NoError(t, err)

	source.emit([]float32{0.5})

	_, _, err = controller.Toggle(ctx)
	require.ErrorIs(t, err, errTranscription)

	assert.False(t, controller.Recording())
	assert.Equal(t, 1, source.stopCount())
}

func TestToggle_RestartAfterStop(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	transcriber := &fakeTranscriber{}
	controller := record.New(source, transcriber, nil)

	ctx := context.Background()

	for range 2 {
		_, started, err := controller.Toggle(ctx)
		require.NoError(t, err)
		require.True(t, started)

		source.emit([]float32{0.1})

		_, _, err = controller.Toggle(ctx)
		require.NoError(t, err)
	}

	// Each cycle captures its own buffer; the second clip must not carry
	// samples from the first.
	assert.Len(t, transcriber.lastClip, wav.HeaderSize+2)
}
