// Package archive stores synthesized audio clips in the shared NATS
// JetStream object-store bucket, where downstream services can pick them
// up.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const clipSuffix = ".wav"

// Store is a JetStream-backed archive of synthesized clips.
type Store struct {
	bucket string
	store  nats.ObjectStore
}

// New binds to (or creates) the clip bucket.
func New(jetstreamContext nats.JetStreamContext, bucketName string) (*Store, error) {
	// Create-first: the common case is a fresh bucket.
	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Synthesized audio clips (%s).", bucketName),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, fmt.Errorf("failed to create clip bucket '%s': %w", bucketName, err)
		}

		store, err = jetstreamContext.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to clip bucket '%s': %w", bucketName, err)
		}
	}

	return &Store{
		bucket: bucketName,
		store:  store,
	}, nil
}

// Put archives one clip under a fresh generated key and returns the key.
func (s *Store) Put(_ context.Context, audio []byte) (string, error) {
	key := uuid.NewString() + clipSuffix

	_, err := s.store.Put(&nats.ObjectMeta{Name: key}, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to put clip '%s' to bucket '%s': %w", key, s.bucket, err)
	}

	return key, nil
}

// Get retrieves an archived clip by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	obj, err := s.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get clip '%s' from bucket '%s': %w", key, s.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read clip '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return data, fmt.Errorf("failed to close clip '%s': %w", key, closeErr)
	}

	return data, nil
}
