package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/rexzheng324-c/pharos/pkg/dataset"
	"github.com/rexzheng324-c/pharos/server/internal/storage"
)

// ErrLocationUnavailable wraps a storage failure while resolving a remote item.
var ErrLocationUnavailable = errors.New("location unavailable")

// Location is the client-facing location of one item.
type Location struct {
	RemotePath string `json:"remotePath"`
	URL        string `json:"url"`
}

// Resolver resolves item locations against a storage backend.
type Resolver struct {
	urls storage.URLResolver
}

// NewResolver returns a Resolver that signs remote items with urls.
func NewResolver(urls storage.URLResolver) *Resolver {
	return &Resolver{urls: urls}
}

// Resolve returns item's location. Remote items may block on the backend.
func (r *Resolver) Resolve(ctx context.Context, item *dataset.DataItem) (Location, error) {
	if item.Kind == dataset.Local {
		return Location{RemotePath: item.TargetRemotePath, URL: item.Path}, nil
	}

	u, err := r.urls.URL(ctx, item.Path)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: %w", ErrLocationUnavailable, item.Path, err)
	}
	return Location{RemotePath: item.Path, URL: u}, nil
}
