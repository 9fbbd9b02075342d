// Package storage keeps document content in an S3-compatible bucket.
//
// When no endpoint is configured the service runs with Noop, and a
// document's file path is only a placeholder key.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/docvault/pkg/config"
)

// ErrObjectNotFound is returned by Get when the key does not exist
var ErrObjectNotFound = errors.New("object not found")

// Store reads and writes document content by key
type Store interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Open returns a MinIO-backed store when cfg has a storage endpoint and Noop
// otherwise. The bucket is created if it does not exist.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if !cfg.StorageEnabled() {
		return Noop{}, nil
	}

	s, err := NewMinio(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket, cfg.StorageRegion, cfg.StorageUseSSL)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("prepare storage: %w", err)
	}
	return s, nil
}

// Noop discards content. Get always reports ErrObjectNotFound.
type Noop struct{}

func (Noop) Put(context.Context, string, []byte) error {
	return nil
}

func (Noop) Get(context.Context, string) ([]byte, error) {
	return nil, ErrObjectNotFound
}

func (Noop) Delete(context.Context, string) error {
	return nil
}
