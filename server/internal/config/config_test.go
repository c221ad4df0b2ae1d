package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, `dataset:
  manifest: /data/ds.json
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPPort, cfg.Server.HTTPPort)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, "/data/ds.json", cfg.Dataset.Manifest)
	assert.Equal(t, "fs", cfg.Dataset.Source)
	assert.Equal(t, DefaultResolveConcurrency, cfg.Dataset.ResolveConcurrency)
	assert.Equal(t, "fs", cfg.Storage.Backend)
	assert.Equal(t, ".", cfg.Storage.FS.Root)
}

func TestLoad_Full(t *testing.T) {
	t.Setenv("PHAROS_TEST_AK", "ak")
	t.Setenv("PHAROS_TEST_SK", "sk")

	p := writeConfig(t, `server:
  http_port: 9091
  request_timeout: 5s
  rate_limit: 2.5
log:
  level: debug
  format: console
dataset:
  manifest: manifests/ds.json.zst
  source: s3
  resolve_concurrency: 4
storage:
  backend: s3
  s3:
    bucket: datasets
    prefix: vision/
    region: us-east-1
    endpoint: http://localhost:9000
    use_path_style: true
    access_key_env: PHAROS_TEST_AK
    secret_key_env: PHAROS_TEST_SK
    presign_ttl: 1h
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 9091, cfg.Server.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 3, cfg.Server.RateBurst, "burst derives from rate limit")
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "s3", cfg.Dataset.Source)
	assert.Equal(t, 4, cfg.Dataset.ResolveConcurrency)
	assert.Equal(t, "datasets", cfg.Storage.S3.Bucket)
	assert.True(t, cfg.Storage.S3.UsePathStyle)
	assert.Equal(t, time.Hour, cfg.Storage.S3.PresignTTL)
	assert.Equal(t, "ak", cfg.Storage.S3.AccessKey())
	assert.Equal(t, "sk", cfg.Storage.S3.SecretKey())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"negative timeout", "server:\n  request_timeout: -1s\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"empty manifest", "dataset:\n  manifest: \"\"\n"},
		{"bad source", "dataset:\n  source: ftp\n"},
		{"unknown backend", "storage:\n  backend: gcs\n"},
		{"s3 without bucket", "storage:\n  backend: s3\n  s3:\n    region: us-east-1\n"},
		{"s3 without region", "storage:\n  backend: s3\n  s3:\n    bucket: b\n"},
		{"minio without endpoint", "storage:\n  backend: minio\n  minio:\n    bucket: b\n"},
		{"static without base url", "storage:\n  backend: static\n"},
		{"malformed yaml", "server: [\n"},
		{"s3 source without s3 section", "dataset:\n  source: s3\nstorage:\n  backend: fs\n"},
		{"s3 source without region", "dataset:\n  source: s3\nstorage:\n  backend: static\n  static:\n    base_url: https://cdn.example.com\n  s3:\n    bucket: b\n"},
		{"minio source without endpoint", "dataset:\n  source: minio\nstorage:\n  backend: fs\n  minio:\n    bucket: b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_SourceSectionValidated(t *testing.T) {
	_, err := Load(writeConfig(t, "dataset:\n  source: s3\nstorage:\n  backend: fs\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dataset.source "s3"`)
	assert.Contains(t, err.Error(), "storage.s3.bucket")

	cfg, err := Load(writeConfig(t, `dataset:
  source: minio
storage:
  backend: static
  static:
    base_url: https://cdn.example.com
  minio:
    endpoint: localhost:9000
    bucket: datasets
`))
	require.NoError(t, err)
	assert.Equal(t, "minio", cfg.Dataset.Source)
	assert.Equal(t, DefaultPresignTTL, cfg.Storage.MinIO.PresignTTL, "source section gets its defaults too")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRestartRequired(t *testing.T) {
	old := Default()
	updated := Default()
	updated.Log.Level = "debug"
	assert.Empty(t, RestartRequired(old, updated))

	updated.Server.HTTPPort = 9999
	updated.Storage.Backend = "static"
	assert.Equal(t, []string{"server", "storage"}, RestartRequired(old, updated))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	p := writeConfig(t, "log:\n  level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, zerolog.Nop(), func(c *Config) {
			select {
			case reloaded <- c:
			case <-ctx.Done():
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(p, []byte("log:\n  level: debug\n"), 0o600))

	// A write may surface as several events, some observing a truncated file.
	deadline := time.After(5 * time.Second)
	for level := ""; level != "debug"; {
		select {
		case c := <-reloaded:
			level = c.Log.Level
		case <-deadline:
			t.Fatal("no reload with the new level observed")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
