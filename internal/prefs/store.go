// Package prefs provides the persistent preference store for the voice
// client.
//
// Preferences are the handful of settings that survive restarts: backend
// base URL, engine choice, cloned-voice flag, language hint, selected
// voice and draft synthesis text. Values are JSON-serialized onto a
// pluggable substrate. Reads never fail; a missing or unparsable entry
// silently yields the caller's default.
package prefs

import (
	"encoding/json"
	"strings"
	"sync"
)

// Key names a tracked preference. The names are stable so an existing
// settings document stays readable across releases.
type Key string

// Tracked preference keys.
const (
	KeyAPIBase   Key = "cgx_api"
	KeyEngine    Key = "cgx_engine"
	KeyCloned    Key = "cgx_cloned"
	KeyLanguage  Key = "cgx_lang"
	KeyVoice     Key = "cgx_voice"
	KeyDraftText Key = "cgx_ttsText"
)

// Keys lists every tracked preference, in display order.
func Keys() []Key {
	return []Key{
		KeyAPIBase,
		KeyEngine,
		KeyCloned,
		KeyLanguage,
		KeyVoice,
		KeyDraftText,
	}
}

// Substrate is the durable key-value layer beneath the store. Get reports
// whether the key was present; Set and Remove persist immediately.
type Substrate interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Store is a read-through/write-through preference cache over a Substrate.
// It is injected explicitly into every consumer; there is no ambient
// global preference state.
type Store struct {
	mu  sync.Mutex
	sub Substrate
}

// New creates a preference store over the given substrate.
func New(sub Substrate) *Store {
	return &Store{sub: sub}
}

// String reads a string preference, returning def when the entry is
// missing or not valid JSON.
func (s *Store) String(key Key, def string) string {
	var value string

	if !s.read(key, &value) {
		return def
	}

	return value
}

// Bool reads a boolean preference, returning def when the entry is
// missing or not valid JSON.
func (s *Store) Bool(key Key, def bool) bool {
	var value bool

	if !s.read(key, &value) {
		return def
	}

	return value
}

// Int reads an integer preference, returning def when the entry is
// missing or not valid JSON.
func (s *Store) Int(key Key, def int) int {
	var value int

	if !s.read(key, &value) {
		return def
	}

	return value
}

// Set serializes a value and writes it through to the substrate.
func (s *Store) Set(key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sub.Set(string(key), string(raw))
}

// Clear removes every tracked key as a single operation. The first
// removal failure aborts the sweep.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range Keys() {
		err := s.sub.Remove(string(key))
		if err != nil {
			return err
		}
	}

	return nil
}

// BaseURL reads the backend base URL preference with trailing slashes
// stripped, falling back to def when unset.
func (s *Store) BaseURL(def string) string {
	url := s.String(KeyAPIBase, def)
	if url == "" {
		url = def
	}

	return strings.TrimRight(url, "/")
}

func (s *Store) read(key Key, target any) bool {
	s.mu.Lock()
	raw, ok := s.sub.Get(string(key))
	s.mu.Unlock()

	if !ok {
		return false
	}

	err := json.Unmarshal([]byte(raw), target)

	return err == nil
}
