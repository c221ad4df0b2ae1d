package dataset

import "errors"

var (
	// ErrDuplicateSegment is returned by New when two segments share a name.
	ErrDuplicateSegment = errors.New("dataset: duplicate segment name")

	// ErrSegmentKindMismatch is returned by New when a segment's kind does not
	// match the dataset mode (e.g. a FusionSegment in a Plain dataset).
	ErrSegmentKindMismatch = errors.New("dataset: segment kind does not match dataset mode")

	// ErrUnknownMode is returned by ParseMode for an unrecognised mode name.
	ErrUnknownMode = errors.New("dataset: unknown mode")
)
