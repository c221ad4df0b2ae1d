package view

import (
	"errors"
	"fmt"
)

var (
	// ErrSegmentNotFound matches any *SegmentNotFoundError.
	ErrSegmentNotFound = errors.New("view: segment not found")

	// ErrFusionRequired is returned by Sensors on a plain dataset.
	ErrFusionRequired = errors.New("view: fusion dataset required")
)

// SegmentNotFoundError names the segment a request asked for.
type SegmentNotFoundError struct {
	Name string
}

func (e *SegmentNotFoundError) Error() string {
	return fmt.Sprintf("view: segment %q does not exist", e.Name)
}

func (e *SegmentNotFoundError) Is(target error) bool {
	return target == ErrSegmentNotFound
}
