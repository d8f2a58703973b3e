package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nats-io/nats.go"

	"github.com/Bharath-kolekar/cognomegafxg/internal/archive"
)

// archiveClip uploads a finished clip to the shared archive bucket and
// returns the generated object key. Archiving requires a configured NATS
// URL.
func (a *app) archiveClip(ctx context.Context, path string) (string, error) {
	if a.cfg.Archive.NATSURL == "" {
		return "", fmt.Errorf("archiving is not configured: set archive.nats_url")
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read clip %s: %w", path, err)
	}

	conn, err := nats.Connect(a.cfg.Archive.NATSURL)
	if err != nil {
		return "", fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer conn.Close()

	jetstreamContext, err := conn.JetStream()
	if err != nil {
		return "", fmt.Errorf("failed to get JetStream context: %w", err)
	}

	store, err := archive.New(jetstreamContext, a.cfg.Archive.ClipBucket)
	if err != nil {
		return "", fmt.Errorf("failed to open clip archive: %w", err)
	}

	key, err := store.Put(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to store clip: %w", err)
	}

	a.log.Info("Archived clip %s as %s", path, key)

	return key, nil
}
