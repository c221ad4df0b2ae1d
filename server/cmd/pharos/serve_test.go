package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexzheng324-c/pharos/server/internal/config"
	"github.com/rexzheng324-c/pharos/server/internal/store"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func serveConfig(t *testing.T, manifestBody string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataset.json"), []byte(manifestBody), 0o644))

	cfg := config.Default()
	cfg.Server.HTTPPort = freePort(t)
	cfg.Log.Level = "error"
	cfg.Storage.FS.Root = dir
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServe_InvalidDatasetKindIsFatal(t *testing.T) {
	cfg := serveConfig(t, `{"type":"video","segments":[]}`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := serve(ctx, cfg, "")
	require.ErrorIs(t, err, store.ErrInvalidDatasetKind)
	assert.NoError(t, ctx.Err(), "serve stops on its own after a failed load")
}

func TestServe_MissingManifestIsFatal(t *testing.T) {
	cfg := serveConfig(t, manifest)
	cfg.Dataset.Manifest = "absent.json"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := serve(ctx, cfg, "")
	assert.ErrorContains(t, err, "load dataset")
	assert.NoError(t, ctx.Err())
}

func TestServe_LoadsThenShutsDown(t *testing.T) {
	cfg := serveConfig(t, manifest)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, "") }()

	healthz := fmt.Sprintf("http://127.0.0.1:%d/healthz", cfg.Server.HTTPPort)
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthz)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/sensors?segmentName=seq0", cfg.Server.HTTPPort))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
