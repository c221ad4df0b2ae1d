package store

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rexzheng324-c/pharos/pkg/dataset"
)

var (
	// ErrUninitialized is returned by Current before Init has succeeded.
	ErrUninitialized = errors.New("store: dataset not loaded")

	// ErrInvalidDatasetKind is returned by Init for a nil dataset or one whose
	// mode is neither Plain nor Fusion.
	ErrInvalidDatasetKind = errors.New("store: not a plain or fusion dataset")

	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("store: already initialized")
)

// Store is the process-wide, read-only dataset context.
// The zero value is an uninitialised Store ready for Init.
type Store struct {
	ds atomic.Pointer[dataset.Dataset]
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// NewWith returns a Store already initialised with ds.
func NewWith(ds *dataset.Dataset) (*Store, error) {
	s := New()
	if err := s.Init(ds); err != nil {
		return nil, err
	}
	return s, nil
}

// Init installs ds. It may succeed only once.
func (s *Store) Init(ds *dataset.Dataset) error {
	if ds == nil {
		return fmt.Errorf("%w: nil dataset", ErrInvalidDatasetKind)
	}
	if !ds.Mode().Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDatasetKind, ds.Mode())
	}
	if !s.ds.CompareAndSwap(nil, ds) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Current returns the installed dataset. Its mode is ds.Mode().
func (s *Store) Current() (*dataset.Dataset, error) {
	ds := s.ds.Load()
	if ds == nil {
		return nil, ErrUninitialized
	}
	return ds, nil
}

// Ready reports whether Init has succeeded.
func (s *Store) Ready() bool {
	return s.ds.Load() != nil
}
