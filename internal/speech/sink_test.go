package speech_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharath-kolekar/cognomegafxg/internal/speech"
)

func TestFileSink_CreateAndRelease(t *testing.T) {
	t.Parallel()

	sink := speech.NewFileSink(t.TempDir())

	clip, err := sink.CreateClip([]byte("RIFF-audio-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(clip.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-audio-bytes"), data)

	require.NoError(t, clip.Release())

	_, err = os.Stat(clip.Path())
	assert.True(t, os.IsNotExist(err), "release must remove the clip file")
}

func TestFileSink_ReleaseTwiceFails(t *testing.T) {
	t.Parallel()

	sink := speech.NewFileSink(t.TempDir())

	clip, err := sink.CreateClip([]byte("audio"))
	require.NoError(t, err)

	require.NoError(t, clip.Release())
	require.Error(t, clip.Release())
}
