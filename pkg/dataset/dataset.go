package dataset

import (
	"fmt"
	"strings"
)

// Mode is the dataset discriminant. Its integer value is part of the wire
// format (the "type" field of segment-scoped responses).
type Mode int

const (
	Plain  Mode = 0
	Fusion Mode = 1
)

func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case Fusion:
		return "fusion"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is Plain or Fusion.
func (m Mode) Valid() bool { return m == Plain || m == Fusion }

// ParseMode maps "plain" / "fusion" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "dataset":
		return Plain, nil
	case "fusion", "fusiondataset", "fusion_dataset":
		return Fusion, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownMode, s)
	}
}

// Dataset is an immutable, ordered collection of segments plus a catalog.
type Dataset struct {
	mode     Mode
	catalog  Payload
	segments []Segment
	byName   map[string]Segment
}

// New validates and assembles a dataset. Segment names must be unique and
// every segment's kind must match mode. A mode outside Plain/Fusion is
// accepted here and rejected when the dataset is installed in a store.
func New(mode Mode, catalog Payload, segments ...Segment) (*Dataset, error) {
	byName := make(map[string]Segment, len(segments))
	for _, seg := range segments {
		if _, dup := byName[seg.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSegment, seg.Name())
		}
		if mode.Valid() && kindOf(seg) != mode {
			return nil, fmt.Errorf("%w: segment %q is %s, dataset is %s",
				ErrSegmentKindMismatch, seg.Name(), kindOf(seg), mode)
		}
		byName[seg.Name()] = seg
	}
	return &Dataset{
		mode:     mode,
		catalog:  catalog,
		segments: segments,
		byName:   byName,
	}, nil
}

func kindOf(seg Segment) Mode {
	if _, ok := seg.(*FusionSegment); ok {
		return Fusion
	}
	return Plain
}

// Mode returns the dataset discriminant.
func (d *Dataset) Mode() Mode { return d.mode }

// Catalog returns the dataset-wide catalog payload.
func (d *Dataset) Catalog() Payload { return d.catalog }

// Segments returns all segments in insertion order. Callers must not modify
// the returned slice.
func (d *Dataset) Segments() []Segment { return d.segments }

// Segment looks up a segment by name.
func (d *Dataset) Segment(name string) (Segment, bool) {
	seg, ok := d.byName[name]
	return seg, ok
}

// Len returns the number of segments.
func (d *Dataset) Len() int { return len(d.segments) }
