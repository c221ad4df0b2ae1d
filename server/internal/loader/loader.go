package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/rexzheng324-c/pharos/pkg/dataset"
	"github.com/rexzheng324-c/pharos/server/internal/storage"
	"github.com/rexzheng324-c/pharos/server/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidManifest reports a manifest that decodes but does not describe a
// valid dataset.
var ErrInvalidManifest = errors.New("loader: invalid manifest")

// Source is the part of storage.Backend the loader reads from.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

var _ Source = storage.Backend(nil)

type manifest struct {
	Type     string          `json:"type"`
	Catalog  dataset.Payload `json:"catalog"`
	Segments []segmentDoc    `json:"segments"`
}

type segmentDoc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Sensors     dataset.Payload `json:"sensors"`
	Data        []itemDoc       `json:"data"`
	Frames      []frameDoc      `json:"frames"`
}

type itemDoc struct {
	Path             string          `json:"path"`
	Remote           bool            `json:"remote"`
	TargetRemotePath string          `json:"targetRemotePath"`
	Timestamp        int64           `json:"timestamp"`
	Label            dataset.Payload `json:"label"`
}

type frameDoc struct {
	FrameID string          `json:"frameId"`
	Data    []sensorItemDoc `json:"data"`
}

type sensorItemDoc struct {
	Sensor           string          `json:"sensor"`
	Path             string          `json:"path"`
	Remote           bool            `json:"remote"`
	TargetRemotePath string          `json:"targetRemotePath"`
	Timestamp        int64           `json:"timestamp"`
	Label            dataset.Payload `json:"label"`
}

func (d sensorItemDoc) item() itemDoc {
	return itemDoc{
		Path:             d.Path,
		Remote:           d.Remote,
		TargetRemotePath: d.TargetRemotePath,
		Timestamp:        d.Timestamp,
		Label:            d.Label,
	}
}

// Load opens name on src, decompresses it by extension and decodes it.
func Load(ctx context.Context, src Source, name string) (*dataset.Dataset, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %w", name, err)
	}
	defer rc.Close()

	r, err := decompress(rc, name)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", name, err)
	}
	defer r.Close()

	ds, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", name, err)
	}
	return ds, nil
}

// decompress wraps r in the codec selected by name's extension.
func decompress(r io.Reader, name string) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// Decode reads one manifest document:
//
//	{"type": "plain"|"fusion", "catalog": {...}, "segments": [...]}
//
// Plain segments list items under "data"; fusion segments list frames under
// "frames", each holding per-sensor items. A type other than plain or fusion
// yields store.ErrInvalidDatasetKind.
func Decode(r io.Reader) (*dataset.Dataset, error) {
	var m manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	mode, err := dataset.ParseMode(m.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidDatasetKind, err)
	}

	segments := make([]dataset.Segment, 0, len(m.Segments))
	for i, doc := range m.Segments {
		seg, err := buildSegment(mode, doc)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, seg)
	}

	ds, err := dataset.New(mode, m.Catalog, segments...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return ds, nil
}

func buildSegment(mode dataset.Mode, doc segmentDoc) (dataset.Segment, error) {
	if mode == dataset.Plain {
		if len(doc.Frames) > 0 {
			return nil, fmt.Errorf("%w: plain segment %q has frames", ErrInvalidManifest, doc.Name)
		}
		items := make([]*dataset.DataItem, len(doc.Data))
		for i, it := range doc.Data {
			item, err := buildItem(it)
			if err != nil {
				return nil, fmt.Errorf("segment %q item %d: %w", doc.Name, i, err)
			}
			items[i] = item
		}
		return dataset.NewPlainSegment(doc.Name, doc.Description, items), nil
	}

	if len(doc.Data) > 0 {
		return nil, fmt.Errorf("%w: fusion segment %q has flat data", ErrInvalidManifest, doc.Name)
	}
	frames := make([]*dataset.Frame, len(doc.Frames))
	for i, fd := range doc.Frames {
		frame := &dataset.Frame{ID: fd.FrameID, Data: make([]dataset.SensorData, len(fd.Data))}
		for j, sd := range fd.Data {
			if sd.Sensor == "" {
				return nil, fmt.Errorf("%w: segment %q frame %d entry %d has no sensor", ErrInvalidManifest, doc.Name, i, j)
			}
			item, err := buildItem(sd.item())
			if err != nil {
				return nil, fmt.Errorf("segment %q frame %d sensor %q: %w", doc.Name, i, sd.Sensor, err)
			}
			frame.Data[j] = dataset.SensorData{Sensor: sd.Sensor, Item: item}
		}
		frames[i] = frame
	}
	return dataset.NewFusionSegment(doc.Name, doc.Description, doc.Sensors, frames), nil
}

func buildItem(doc itemDoc) (*dataset.DataItem, error) {
	if doc.Path == "" {
		return nil, fmt.Errorf("%w: item has no path", ErrInvalidManifest)
	}

	var item *dataset.DataItem
	if doc.Remote {
		item = dataset.NewRemoteItem(doc.Path)
	} else {
		target := doc.TargetRemotePath
		if target == "" {
			target = path.Base(strings.ReplaceAll(doc.Path, "\\", "/"))
		}
		item = dataset.NewLocalItem(doc.Path, target)
	}
	item.Timestamp = doc.Timestamp
	item.Label = doc.Label
	return item, nil
}
