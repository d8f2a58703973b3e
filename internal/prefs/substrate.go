package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	settingsFileName = "settings.json"
	configDirName    = "cognomegafx"

	filePermissions = 0o600
	dirPermissions  = 0o750
)

// DefaultSettingsPath returns the settings document location under the
// user config directory.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", configDirName, settingsFileName), nil
}

// FileSubstrate persists preferences as a single JSON document on disk.
// Every mutation rewrites the file, matching the write-through contract of
// the store above it.
type FileSubstrate struct {
	path    string
	entries map[string]string
}

// NewFileSubstrate loads (or initializes) the settings document at path.
// A missing file starts empty; a corrupt file is treated as empty rather
// than failing startup, since every preference has a caller-side default.
func NewFileSubstrate(path string) (*FileSubstrate, error) {
	sub := &FileSubstrate{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sub, nil
		}

		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	// Corrupt settings fall back to defaults for every key.
	_ = json.Unmarshal(data, &sub.entries)

	return sub, nil
}

// Get returns the stored raw value for key.
func (f *FileSubstrate) Get(key string) (string, bool) {
	value, ok := f.entries[key]

	return value, ok
}

// Set stores a raw value and rewrites the document.
func (f *FileSubstrate) Set(key, value string) error {
	f.entries[key] = value

	return f.flush()
}

// Remove deletes a key and rewrites the document. Removing an absent key
// is a no-op.
func (f *FileSubstrate) Remove(key string) error {
	if _, ok := f.entries[key]; !ok {
		return nil
	}

	delete(f.entries, key)

	return f.flush()
}

func (f *FileSubstrate) flush() error {
	dirErr := os.MkdirAll(filepath.Dir(f.path), dirPermissions)
	if dirErr != nil {
		return fmt.Errorf("failed to create settings directory: %w", dirErr)
	}

	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	err = os.WriteFile(f.path, data, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// MemorySubstrate is an in-memory substrate for tests and one-shot runs.
type MemorySubstrate struct {
	entries map[string]string
}

// NewMemorySubstrate creates an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{entries: make(map[string]string)}
}

// Get returns the stored raw value for key.
func (m *MemorySubstrate) Get(key string) (string, bool) {
	value, ok := m.entries[key]

	return value, ok
}

// Set stores a raw value.
func (m *MemorySubstrate) Set(key, value string) error {
	m.entries[key] = value

	return nil
}

// Remove deletes a key.
func (m *MemorySubstrate) Remove(key string) error {
	delete(m.entries, key)

	return nil
}
