package record

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/Bharath-kolekar/cognomegafxg/internal/wav"
)

const (
	framesPerBuffer = 512
	frameQueueSize  = 100
)

// ErrCaptureRunning is returned when Start is called on an active source.
var ErrCaptureRunning = errors.New("capture already running")

// PortAudioSource captures microphone audio through PortAudio at 16 kHz
// mono, the format the transcription backend expects.
type PortAudioSource struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	frames  chan []float32
	running bool
}

// NewPortAudioSource initializes PortAudio and prepares a capture source.
// Close must be called to release the PortAudio runtime.
func NewPortAudioSource() (*PortAudioSource, error) {
	err := portaudio.Initialize()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	return &PortAudioSource{}, nil
}

// Start opens the default input device and begins delivering frames.
func (s *PortAudioSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrCaptureRunning
	}

	buffer := make([]float32, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(
		wav.CaptureChannels,
		0, // no output channels
		float64(wav.CaptureSampleRate),
		framesPerBuffer,
		buffer,
	)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	err = stream.Start()
	if err != nil {
		_ = stream.Close()

		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	s.stream = stream
	s.frames = make(chan []float32, frameQueueSize)
	s.running = true

	go s.captureLoop(ctx, buffer, s.frames)

	return nil
}

// Frames returns the channel delivering captured sample frames. The
// channel is closed when capture stops.
func (s *PortAudioSource) Frames() <-chan []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frames
}

// SampleRate returns the capture sample rate.
func (s *PortAudioSource) SampleRate() int {
	return wav.CaptureSampleRate
}

func (s *PortAudioSource) captureLoop(ctx context.Context, buffer []float32, frames chan<- []float32) {
	defer close(frames)

	for {
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		running := s.running
		stream := s.stream
		s.mu.Unlock()

		if !running || stream == nil {
			return
		}

		err := stream.Read()
		if err != nil {
			// Overflow and stop-races are transient; bail out only if
			// capture was shut down.
			s.mu.Lock()
			stillRunning := s.running
			s.mu.Unlock()

			if !stillRunning {
				return
			}

			continue
		}

		frame := make([]float32, len(buffer))
		copy(frame, buffer)

		select {
		case frames <- frame:
		default:
			// Queue full, drop the frame rather than stall the device.
		}
	}
}

// Stop halts capture and releases the input device. Stopping an idle
// source is a no-op.
func (s *PortAudioSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false

	if s.stream != nil {
		_ = s.stream.Stop()

		err := s.stream.Close()
		s.stream = nil

		if err != nil {
			return fmt.Errorf("failed to close audio stream: %w", err)
		}
	}

	return nil
}

// Close releases the PortAudio runtime.
func (s *PortAudioSource) Close() error {
	err := s.Stop()
	if err != nil {
		return err
	}

	err = portaudio.Terminate()
	if err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}

	return nil
}
