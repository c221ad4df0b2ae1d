package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FS serves objects from a local directory.
type FS struct {
	root    string
	baseURL string
}

// NewFS creates a filesystem backend rooted at root, which must be an
// existing directory. If baseURL is non-empty, URL returns baseURL joined
// with the name; otherwise it returns a file:// URL.
func NewFS(root, baseURL string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, os.ErrNotExist
	}
	return &FS{root: abs, baseURL: baseURL}, nil
}

func (f *FS) Name() string { return "fs" }

func (f *FS) Open(_ context.Context, name string) (io.ReadCloser, error) {
	full, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

func (f *FS) URL(_ context.Context, name string) (string, error) {
	if f.baseURL != "" {
		return url.JoinPath(f.baseURL, name)
	}
	full, err := f.safePath(name)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(full)}
	return u.String(), nil
}

// safePath maps name under the root, rejecting absolute names and names that
// escape the root.
func (f *FS) safePath(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if name == "" || cleaned == "." || filepath.IsAbs(cleaned) {
		return "", ErrInvalidPath
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	full := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(full, f.root+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}
