// Package content provides the content intake orchestrator: it accepts
// pasted HTML or an uploaded file, requests backend cleaning, and relies
// on the client's degraded path when the cleaning endpoints are absent.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/book-expert/logger"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
)

// Validation errors, detected before any network traffic.
var (
	ErrNoHTML = errors.New("no HTML to clean")
	ErrNoFile = errors.New("no file selected")
)

// Cleaner is the backend capability the intake depends on.
type Cleaner interface {
	CleanHTML(ctx context.Context, html string) (backend.CleanedContent, error)
	CleanHTMLFile(ctx context.Context, name string, reader io.Reader) (backend.CleanedContent, error)
}

// Intake turns raw pasted or uploaded input into clean speakable text.
type Intake struct {
	cleaner Cleaner
	log     *logger.Logger
}

// New creates a content intake over a cleaner.
func New(cleaner Cleaner, log *logger.Logger) *Intake {
	return &Intake{cleaner: cleaner, log: log}
}

// CleanText cleans pasted HTML. Blank input is a local validation error.
func (i *Intake) CleanText(ctx context.Context, html string) (backend.CleanedContent, error) {
	if strings.TrimSpace(html) == "" {
		return backend.CleanedContent{}, ErrNoHTML
	}

	content, err := i.cleaner.CleanHTML(ctx, html)
	if err != nil {
		return backend.CleanedContent{}, err
	}

	if i.log != nil {
		i.log.Info("Cleaned pasted HTML: title %q, %d chars", content.Title, len(content.Text))
	}

	return content, nil
}

// CleanFile cleans an HTML (or plain text) file from disk.
func (i *Intake) CleanFile(ctx context.Context, path string) (backend.CleanedContent, error) {
	if strings.TrimSpace(path) == "" {
		return backend.CleanedContent{}, ErrNoFile
	}

	file, err := os.Open(path)
	if err != nil {
		return backend.CleanedContent{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer func() {
		closeErr := file.Close()
		if closeErr != nil && i.log != nil {
			i.log.Warn("Failed to close %s: %v", path, closeErr)
		}
	}()

	content, err := i.cleaner.CleanHTMLFile(ctx, filepath.Base(path), file)
	if err != nil {
		return backend.CleanedContent{}, err
	}

	return content, nil
}
