package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// Static maps names onto a fixed HTTP base URL. It performs no I/O.
type Static struct {
	base string
}

// NewStatic validates baseURL and returns a Static backend.
func NewStatic(baseURL string) (*Static, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: static base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("storage: static base url %q must be http or https", baseURL)
	}
	return &Static{base: baseURL}, nil
}

func (s *Static) Name() string { return "static" }

func (s *Static) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrUnsupported
}

func (s *Static) URL(_ context.Context, name string) (string, error) {
	return url.JoinPath(s.base, name)
}
