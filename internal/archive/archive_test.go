// Package archive_test tests the clip archive against an in-memory NATS
// server.
package archive_test

import (
	"context"
	"strings"
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharath-kolekar/cognomegafxg/internal/archive"
)

// startTestServer starts an in-memory NATS server with JetStream enabled.
func startTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // random port
	opts.JetStream = true
	opts.StoreDir = t.TempDir()
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, natsConnection
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := archive.New(jetstreamContext, "test-clips")
	require.NoError(t, err)

	ctx := context.Background()
	audio := []byte("RIFF-synthesized-audio")

	key, err := store.Put(ctx, audio)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".wav"))

	restored, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, audio, restored)
}

func TestStore_KeysAreUnique(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := archive.New(jetstreamContext, "test-clips-unique")
	require.NoError(t, err)

	ctx := context.Background()

	first, err := store.Put(ctx, []byte("one"))
	require.NoError(t, err)

	second, err := store.Put(ctx, []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStore_BindsToExistingBucket(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	first, err := archive.New(jetstreamContext, "test-clips-rebind")
	require.NoError(t, err)

	ctx := context.Background()

	key, err := first.Put(ctx, []byte("persisted"))
	require.NoError(t, err)

	second, err := archive.New(jetstreamContext, "test-clips-rebind")
	require.NoError(t, err)

	restored, err := second.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), restored)
}

func TestStore_GetMissingKey(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := archive.New(jetstreamContext, "test-clips-missing")
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "no-such-key.wav")
	require.Error(t, err)
}
