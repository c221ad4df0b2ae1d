package dataset

// ItemKind discriminates how a DataItem's location is obtained.
type ItemKind int

const (
	// Local items embed a path that clients can use directly.
	Local ItemKind = iota
	// Remote items hold an opaque storage path resolved to a URL per request.
	Remote
)

func (k ItemKind) String() string {
	switch k {
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "unknown"
	}
}

// DataItem is one leaf unit of data.
type DataItem struct {
	// Kind selects the Local or Remote variant.
	Kind ItemKind

	// Path is the embedded local path for Local items and the stored remote
	// path for Remote items.
	Path string

	// TargetRemotePath is the externally-facing relative name of a Local item.
	// Unused for Remote items.
	TargetRemotePath string

	// Timestamp is set for items inside a Frame; 0 when the source has none.
	Timestamp int64

	// Label is the attached annotation payload, possibly empty.
	Label Payload
}

// NewLocalItem returns a Local item.
func NewLocalItem(path, targetRemotePath string) *DataItem {
	return &DataItem{Kind: Local, Path: path, TargetRemotePath: targetRemotePath}
}

// NewRemoteItem returns a Remote item.
func NewRemoteItem(path string) *DataItem {
	return &DataItem{Kind: Remote, Path: path}
}

// RemotePath is the client-facing name of the item: TargetRemotePath for
// Local items, Path for Remote ones.
func (d *DataItem) RemotePath() string {
	if d.Kind == Local {
		return d.TargetRemotePath
	}
	return d.Path
}

// SensorData pairs a sensor name with the item it captured in a Frame.
type SensorData struct {
	Sensor string
	Item   *DataItem
}

// Frame is one time-aligned bundle of per-sensor items in a fusion segment.
type Frame struct {
	// ID is the source-assigned frame id; empty when none was assigned.
	ID string

	// Data lists the frame's items in stored sensor order.
	Data []SensorData
}

// Record is one top-level entry of a segment: *DataItem in plain segments,
// *Frame in fusion segments.
type Record interface {
	record()
}

func (*DataItem) record() {}
func (*Frame) record()    {}
