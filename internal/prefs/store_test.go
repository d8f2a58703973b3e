// Package prefs_test tests the preference store and its substrates.
package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharath-kolekar/cognomegafxg/internal/prefs"
)

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := prefs.New(prefs.NewMemorySubstrate())

	require.NoError(t, store.Set(prefs.KeyVoice, "xtts_cloned"))
	require.NoError(t, store.Set(prefs.KeyCloned, true))
	require.NoError(t, store.Set(prefs.KeyDraftText, "Hello from MegaFX"))

	assert.Equal(t, "xtts_cloned", store.String(prefs.KeyVoice, "fallback"))
	assert.True(t, store.Bool(prefs.KeyCloned, false))
	assert.Equal(t, "Hello from MegaFX", store.String(prefs.KeyDraftText, ""))
}

func TestStore_MissingKeyYieldsDefault(t *testing.T) {
	t.Parallel()

	store := prefs.New(prefs.NewMemorySubstrate())

	assert.Equal(t, "auto", store.String(prefs.KeyLanguage, "auto"))
	assert.True(t, store.Bool(prefs.KeyCloned, true))
	assert.Equal(t, 500, store.Int(prefs.KeyEngine, 500))
}

func TestStore_MalformedValueYieldsDefault(t *testing.T) {
	t.Parallel()

	sub := prefs.NewMemorySubstrate()
	require.NoError(t, sub.Set(string(prefs.KeyVoice), "{not json"))
	require.NoError(t, sub.Set(string(prefs.KeyCloned), "definitely-not-a-bool"))

	store := prefs.New(sub)

	assert.Equal(t, "xtts_default", store.String(prefs.KeyVoice, "xtts_default"))
	assert.False(t, store.Bool(prefs.KeyCloned, false))
}

func TestStore_TypeMismatchYieldsDefault(t *testing.T) {
	t.Parallel()

	store := prefs.New(prefs.NewMemorySubstrate())
	require.NoError(t, store.Set(prefs.KeyVoice, 42))

	assert.Equal(t, "fallback", store.String(prefs.KeyVoice, "fallback"))
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	store := prefs.New(prefs.NewMemorySubstrate())

	for _, key := range prefs.Keys() {
		require.NoError(t, store.Set(key, "value"))
	}

	require.NoError(t, store.Clear())

	for _, key := range prefs.Keys() {
		assert.Equal(t, "default", store.String(key, "default"))
	}
}

func TestStore_BaseURLStripsTrailingSlashes(t *testing.T) {
	t.Parallel()

	store := prefs.New(prefs.NewMemorySubstrate())
	require.NoError(t, store.Set(prefs.KeyAPIBase, "http://localhost:8000///"))

	assert.Equal(t, "http://localhost:8000", store.BaseURL("http://fallback"))

	empty := prefs.New(prefs.NewMemorySubstrate())
	assert.Equal(t, "http://fallback", empty.BaseURL("http://fallback/"))
}

func TestFileSubstrate_PersistsAcrossSessions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")

	first, err := prefs.NewFileSubstrate(path)
	require.NoError(t, err)

	store := prefs.New(first)
	require.NoError(t, store.Set(prefs.KeyAPIBase, "http://localhost:9000"))
	require.NoError(t, store.Set(prefs.KeyCloned, true))

	// A fresh substrate over the same path simulates a new session.
	second, err := prefs.NewFileSubstrate(path)
	require.NoError(t, err)

	reopened := prefs.New(second)
	assert.Equal(t, "http://localhost:9000", reopened.String(prefs.KeyAPIBase, ""))
	assert.True(t, reopened.Bool(prefs.KeyCloned, false))
}

func TestFileSubstrate_MissingFileStartsEmpty(t *testing.T) {
	t.Parallel()

	sub, err := prefs.NewFileSubstrate(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	_, ok := sub.Get(string(prefs.KeyVoice))
	assert.False(t, ok)
}

func TestFileSubstrate_CorruptFileStartsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("!! not json !!"), 0o600))

	sub, err := prefs.NewFileSubstrate(path)
	require.NoError(t, err)

	store := prefs.New(sub)
	assert.Equal(t, "default", store.String(prefs.KeyVoice, "default"))
}
