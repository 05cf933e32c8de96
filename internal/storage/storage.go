package storage

import (
	"context"
	"fmt"
	"io"

	"sermonforge_backend/internal/config"
)

// Storage abstracts where uploaded media and branding assets live.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public or signed URL for a stored object.
	URL(key string) string
}

// New builds the storage backend selected in config.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Type {
	case "local":
		return NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
}
