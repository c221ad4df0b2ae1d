package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rexzheng324-c/pharos/server/internal/config"
)

// MinIO serves objects from a MinIO bucket and resolves names to presigned URLs.
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string
	ttl    time.Duration
}

// NewMinIOClient creates a minio-go client from cfg.
func NewMinIOClient(cfg config.MinIOConfig) (*minio.Client, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKey(), cfg.SecretKey(), ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
}

// NewMinIO creates a MinIO backend. prefix is prepended to every name.
func NewMinIO(client *minio.Client, bucket, prefix string, ttl time.Duration) *MinIO {
	if ttl <= 0 {
		ttl = config.DefaultPresignTTL
	}
	return &MinIO{
		client: client,
		bucket: bucket,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (m *MinIO) Name() string { return "minio" }

func (m *MinIO) key(name string) string {
	return path.Join(m.prefix, name)
}

func (m *MinIO) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinIOErr(err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapMinIOErr(err)
	}
	return obj, nil
}

func (m *MinIO) URL(ctx context.Context, name string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, m.key(name), m.ttl, url.Values{})
	if err != nil {
		return "", mapMinIOErr(err)
	}
	return u.String(), nil
}

func mapMinIOErr(err error) error {
	switch string(minio.ToErrorResponse(err).Code) {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return ErrNotFound
	}
	return err
}
