package view

import "github.com/rexzheng324-c/pharos/pkg/dataset"

// SegmentEntry is one segment in SegmentList.
type SegmentEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SegmentList is the payload for GET /segments.
type SegmentList struct {
	Segments   []SegmentEntry `json:"segments"`
	Offset     int            `json:"offset"`
	RecordSize int            `json:"recordSize"`
	TotalCount int            `json:"totalCount"`
}

// DataURIList is the payload for GET /data/urls. Each element of URLs is a
// location.Location (plain) or a FrameLocations (fusion).
type DataURIList struct {
	SegmentName string       `json:"segmentName"`
	Type        dataset.Mode `json:"type"`
	URLs        []any        `json:"urls"`
	Offset      int          `json:"offset"`
	RecordSize  int          `json:"recordSize"`
	TotalCount  int          `json:"totalCount"`
}

// FrameLocations is one fusion frame in DataURIList.
type FrameLocations struct {
	FrameID string           `json:"frameId"`
	Frame   []SensorLocation `json:"frame"`
}

// SensorLocation is one sensor's item within FrameLocations.
type SensorLocation struct {
	SensorName string `json:"sensor_name"`
	Timestamp  int64  `json:"timestamp"`
	RemotePath string `json:"remotePath"`
	URL        string `json:"url"`
}

// LabelList is the payload for GET /labels. Each element of Labels is an
// ItemLabel (plain) or a FrameLabels (fusion).
type LabelList struct {
	SegmentName string       `json:"segmentName"`
	Type        dataset.Mode `json:"type"`
	Labels      []any        `json:"labels"`
	Offset      int          `json:"offset"`
	RecordSize  int          `json:"recordSize"`
	TotalCount  int          `json:"totalCount"`
}

// ItemLabel is one plain item's label in LabelList.
type ItemLabel struct {
	RemotePath string          `json:"remotePath"`
	Label      dataset.Payload `json:"label"`
}

// FrameLabels is one fusion frame in LabelList.
type FrameLabels struct {
	FrameID string        `json:"frameId"`
	Frame   []SensorLabel `json:"frame"`
}

// SensorLabel is one sensor's label within FrameLabels.
type SensorLabel struct {
	SensorName string          `json:"sensor_name"`
	RemotePath string          `json:"remotePath"`
	Timestamp  int64           `json:"timestamp"`
	Label      dataset.Payload `json:"label"`
}

// SensorList is the payload for GET /sensors.
type SensorList struct {
	SegmentName string          `json:"segmentName"`
	Sensors     dataset.Payload `json:"sensors"`
}

// CatalogResponse is the payload for GET /catalogs.
type CatalogResponse struct {
	Catalogs dataset.Payload `json:"catalogs"`
}

// LabelType is one entry of the label-kind registry.
type LabelType struct {
	LabelKey  string `json:"labelKey"`
	LabelType string `json:"labelType"`
}

// LabelTypeList is the payload for GET /labelTypes.
type LabelTypeList struct {
	LabelTypes []LabelType `json:"labelTypes"`
}
