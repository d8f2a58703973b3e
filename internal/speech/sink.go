package speech

import (
	"fmt"
	"os"
)

// Clip is a playable audio resource created from a synthesis response.
// Release frees the underlying storage; a Clip must be released exactly
// once, when it is superseded or when its owner shuts down.
type Clip interface {
	// Path locates the playable resource for an external player.
	Path() string

	// Release frees the resource. Releasing twice is an error.
	Release() error
}

// Sink converts raw audio payloads into playable clips. It keeps the
// orchestrator testable without touching real audio machinery.
type Sink interface {
	CreateClip(audio []byte) (Clip, error)
}

// FileSink materializes clips as temporary WAV files; Release removes the
// file again.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink writing into dir; an empty dir uses the
// system temp directory.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// CreateClip writes the audio payload to a fresh temp file.
func (s *FileSink) CreateClip(audio []byte) (Clip, error) {
	file, err := os.CreateTemp(s.dir, "cgx-clip-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create clip file: %w", err)
	}

	_, writeErr := file.Write(audio)
	closeErr := file.Close()

	if writeErr != nil {
		_ = os.Remove(file.Name())

		return nil, fmt.Errorf("failed to write clip file: %w", writeErr)
	}

	if closeErr != nil {
		_ = os.Remove(file.Name())

		return nil, fmt.Errorf("failed to close clip file: %w", closeErr)
	}

	return &fileClip{path: file.Name()}, nil
}

type fileClip struct {
	path string
}

func (c *fileClip) Path() string {
	return c.path
}

func (c *fileClip) Release() error {
	err := os.Remove(c.path)
	if err != nil {
		return fmt.Errorf("failed to remove clip file: %w", err)
	}

	return nil
}
