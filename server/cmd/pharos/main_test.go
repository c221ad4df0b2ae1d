package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `{
  "type": "fusion",
  "segments": [
    {"name": "seq0", "description": "city drive", "frames": [
      {"frameId": "f0", "data": [{"sensor": "cam0", "path": "seq0/0.jpg", "remote": true}]},
      {"frameId": "f1", "data": [{"sensor": "cam0", "path": "seq0/1.jpg", "remote": true}]}
    ]}
  ]
}`

func writeFixture(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataset.json"), []byte(manifest), 0o644))
	cfgPath = filepath.Join(dir, "config.yaml")
	cfg := "log:\n  level: warn\nstorage:\n  backend: fs\n  fs:\n    root: " + dir + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return dir, cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInspect(t *testing.T) {
	_, cfgPath := writeFixture(t)

	out, err := run(t, "inspect", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "mode:     fusion")
	assert.Contains(t, out, "segments: 1")
	assert.Regexp(t, `seq0\s+2\s+city drive`, out)
}

func TestInspect_ManifestOverride(t *testing.T) {
	dir, cfgPath := writeFixture(t)
	require.NoError(t, os.Rename(filepath.Join(dir, "dataset.json"), filepath.Join(dir, "other.json")))

	_, err := run(t, "inspect", "--config", cfgPath)
	assert.Error(t, err)

	out, err := run(t, "inspect", "--config", cfgPath, "--manifest", "other.json")
	require.NoError(t, err)
	assert.Contains(t, out, "other.json")
}

func TestInspect_MissingExplicitConfig(t *testing.T) {
	_, err := run(t, "inspect", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestServe_InvalidOverride(t *testing.T) {
	_, cfgPath := writeFixture(t)
	_, err := run(t, "serve", "--config", cfgPath, "--log-level", "loud")
	assert.ErrorContains(t, err, "log.level")
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
		case "/metrics":
			_, _ = w.Write([]byte("# TYPE pharos_http_requests_total counter\npharos_http_requests_total{code=\"503\",route=\"/segments\"} 3\n"))
		}
	}))
	defer srv.Close()

	out, err := run(t, "status", "--addr", srv.URL)
	assert.ErrorIs(t, err, errNotReady)
	assert.Contains(t, out, "status:           loading")
	assert.Contains(t, out, "server errors:    3")
	assert.Contains(t, out, "/segments")
}
