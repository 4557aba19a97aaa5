package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/johnquangdev/coreagenda/pkg/config"
)

// Archive stores and serves published minute documents
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// New returns the archive selected by STORAGE_TYPE
func New(ctx context.Context, cfg *config.StorageConfig) (Archive, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryArchive(), nil
	case "minio":
		return NewMinIOArchive(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
