package dataset

// Segment is a named, ordered sub-collection of a dataset. It is implemented
// by *PlainSegment and *FusionSegment only.
type Segment interface {
	Name() string
	Description() string

	// Records returns the segment's top-level entries in insertion order.
	// Callers must not modify the returned slice.
	Records() []Record

	// Len is len(Records()).
	Len() int

	segment()
}

// PlainSegment holds an ordered list of DataItems.
type PlainSegment struct {
	name        string
	description string
	items       []*DataItem
	records     []Record
}

// NewPlainSegment builds a plain segment over items, kept in the given order.
func NewPlainSegment(name, description string, items []*DataItem) *PlainSegment {
	records := make([]Record, len(items))
	for i, it := range items {
		records[i] = it
	}
	return &PlainSegment{
		name:        name,
		description: description,
		items:       items,
		records:     records,
	}
}

func (s *PlainSegment) Name() string        { return s.name }
func (s *PlainSegment) Description() string { return s.description }
func (s *PlainSegment) Records() []Record   { return s.records }
func (s *PlainSegment) Len() int            { return len(s.items) }
func (s *PlainSegment) segment()            {}

// Items returns the segment's items in insertion order.
func (s *PlainSegment) Items() []*DataItem { return s.items }

// FusionSegment holds an ordered list of Frames and the segment's sensors.
type FusionSegment struct {
	name        string
	description string
	frames      []*Frame
	sensors     Payload
	records     []Record
}

// NewFusionSegment builds a fusion segment over frames, kept in the given order.
func NewFusionSegment(name, description string, sensors Payload, frames []*Frame) *FusionSegment {
	records := make([]Record, len(frames))
	for i, f := range frames {
		records[i] = f
	}
	return &FusionSegment{
		name:        name,
		description: description,
		frames:      frames,
		sensors:     sensors,
		records:     records,
	}
}

func (s *FusionSegment) Name() string        { return s.name }
func (s *FusionSegment) Description() string { return s.description }
func (s *FusionSegment) Records() []Record   { return s.records }
func (s *FusionSegment) Len() int            { return len(s.frames) }
func (s *FusionSegment) segment()            {}

// Frames returns the segment's frames in insertion order.
func (s *FusionSegment) Frames() []*Frame { return s.frames }

// Sensors returns the segment's sensor metadata payload.
func (s *FusionSegment) Sensors() Payload { return s.sensors }
