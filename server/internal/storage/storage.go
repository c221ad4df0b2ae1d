package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rexzheng324-c/pharos/server/internal/config"
)

var (
	// ErrNotFound indicates the named object does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrInvalidPath indicates a name that would escape the backend root.
	ErrInvalidPath = errors.New("storage: invalid path")

	// ErrUnsupported indicates the backend cannot perform the operation.
	ErrUnsupported = errors.New("storage: operation not supported")
)

// Backend is an object store that can serve the manifest and sign item URLs.
type Backend interface {
	// Name returns the backend identifier (fs, s3, minio, static).
	Name() string

	// Open retrieves the named object.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// URL resolves name to a client-facing URL.
	URL(ctx context.Context, name string) (string, error)
}

// URLResolver is the subset of Backend used to resolve remote items.
type URLResolver interface {
	URL(ctx context.Context, name string) (string, error)
}

// New builds the backend called name from cfg. name is usually
// cfg.Backend, but the manifest source may select a different one.
func New(ctx context.Context, name string, cfg config.StorageConfig) (Backend, error) {
	switch name {
	case "fs":
		return NewFS(cfg.FS.Root, cfg.FS.BaseURL)
	case "s3":
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("storage: s3 client: %w", err)
		}
		return NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.PresignTTL), nil
	case "minio":
		client, err := NewMinIOClient(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("storage: minio client: %w", err)
		}
		return NewMinIO(client, cfg.MinIO.Bucket, cfg.MinIO.Prefix, cfg.MinIO.PresignTTL), nil
	case "static":
		return NewStatic(cfg.Static.BaseURL)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", name)
	}
}
