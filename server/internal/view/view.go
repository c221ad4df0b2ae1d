package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rexzheng324-c/pharos/pkg/dataset"
	"github.com/rexzheng324-c/pharos/server/internal/location"
	"github.com/rexzheng324-c/pharos/server/internal/paging"
	"github.com/rexzheng324-c/pharos/server/internal/store"
)

// DefaultLimit is the page size used when a request does not set limit.
const DefaultLimit = 128

// Query is the pagination part of a request. Limit and Offset must already
// be clamped to be non-negative.
type Query struct {
	Limit  int
	Offset int
	Order  paging.Order
}

// DefaultQuery returns the first page in ascending order.
func DefaultQuery() Query {
	return Query{Limit: DefaultLimit}
}

// Builder produces view documents from the dataset in a store.
type Builder struct {
	store       *store.Store
	resolver    *location.Resolver
	concurrency int
}

// New returns a Builder. concurrency bounds parallel remote URL resolutions
// within one DataURIs call; values below 1 mean sequential.
func New(st *store.Store, resolver *location.Resolver, concurrency int) *Builder {
	return &Builder{store: st, resolver: resolver, concurrency: concurrency}
}

// Segments lists the dataset's segments.
func (b *Builder) Segments(q Query) (*SegmentList, error) {
	ds, err := b.store.Current()
	if err != nil {
		return nil, err
	}

	page := paging.Paginate(ds.Segments(), q.Offset, q.Limit, q.Order)
	out := make([]SegmentEntry, len(page.Items))
	for i, seg := range page.Items {
		out[i] = SegmentEntry{Name: seg.Name(), Description: seg.Description()}
	}
	return &SegmentList{
		Segments:   out,
		Offset:     page.Offset,
		RecordSize: page.RecordSize,
		TotalCount: page.TotalCount,
	}, nil
}

// DataURIs lists the resolved locations of one page of a segment's records.
func (b *Builder) DataURIs(ctx context.Context, segmentName string, q Query) (*DataURIList, error) {
	mode, page, err := b.records(segmentName, q)
	if err != nil {
		return nil, err
	}
	urls, err := render(ctx, locationRenderer{b.resolver}, page.Items, b.concurrency)
	if err != nil {
		return nil, err
	}
	return &DataURIList{
		SegmentName: segmentName,
		Type:        mode,
		URLs:        urls,
		Offset:      page.Offset,
		RecordSize:  page.RecordSize,
		TotalCount:  page.TotalCount,
	}, nil
}

// Labels lists the label payloads of one page of a segment's records.
func (b *Builder) Labels(ctx context.Context, segmentName string, q Query) (*LabelList, error) {
	mode, page, err := b.records(segmentName, q)
	if err != nil {
		return nil, err
	}
	labels, err := render(ctx, labelRenderer{}, page.Items, 1)
	if err != nil {
		return nil, err
	}
	return &LabelList{
		SegmentName: segmentName,
		Type:        mode,
		Labels:      labels,
		Offset:      page.Offset,
		RecordSize:  page.RecordSize,
		TotalCount:  page.TotalCount,
	}, nil
}

// Sensors returns the sensor metadata of a fusion segment.
func (b *Builder) Sensors(segmentName string) (*SensorList, error) {
	ds, err := b.store.Current()
	if err != nil {
		return nil, err
	}
	if ds.Mode() != dataset.Fusion {
		return nil, ErrFusionRequired
	}
	seg, ok := ds.Segment(segmentName)
	if !ok {
		return nil, &SegmentNotFoundError{Name: segmentName}
	}
	// dataset.New guarantees every segment of a fusion dataset is a FusionSegment.
	fs := seg.(*dataset.FusionSegment)
	return &SensorList{SegmentName: segmentName, Sensors: orEmpty(fs.Sensors())}, nil
}

// Catalog returns the dataset catalog.
func (b *Builder) Catalog() (*CatalogResponse, error) {
	ds, err := b.store.Current()
	if err != nil {
		return nil, err
	}
	return &CatalogResponse{Catalogs: orEmpty(ds.Catalog())}, nil
}

// records looks up segmentName and pages over its records.
func (b *Builder) records(segmentName string, q Query) (dataset.Mode, paging.Page[dataset.Record], error) {
	ds, err := b.store.Current()
	if err != nil {
		return 0, paging.Page[dataset.Record]{}, err
	}
	seg, ok := ds.Segment(segmentName)
	if !ok {
		return 0, paging.Page[dataset.Record]{}, &SegmentNotFoundError{Name: segmentName}
	}
	return ds.Mode(), paging.Paginate(seg.Records(), q.Offset, q.Limit, q.Order), nil
}

// renderer turns one record into its JSON element.
type renderer interface {
	item(ctx context.Context, it *dataset.DataItem) (any, error)
	frame(ctx context.Context, f *dataset.Frame) (any, error)
}

func renderOne(ctx context.Context, r renderer, rec dataset.Record) (any, error) {
	if it, ok := rec.(*dataset.DataItem); ok {
		return r.item(ctx, it)
	}
	return r.frame(ctx, rec.(*dataset.Frame))
}

// render renders recs in order. With concurrency > 1 records are rendered in
// parallel; the first error cancels the rest and is returned.
func render(ctx context.Context, r renderer, recs []dataset.Record, concurrency int) ([]any, error) {
	out := make([]any, len(recs))
	if concurrency <= 1 || len(recs) <= 1 {
		for i, rec := range recs {
			v, err := renderOne(ctx, r, rec)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			v, err := renderOne(gctx, r, rec)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type locationRenderer struct {
	resolver *location.Resolver
}

func (r locationRenderer) item(ctx context.Context, it *dataset.DataItem) (any, error) {
	return r.resolver.Resolve(ctx, it)
}

func (r locationRenderer) frame(ctx context.Context, f *dataset.Frame) (any, error) {
	entries := make([]SensorLocation, len(f.Data))
	for i, sd := range f.Data {
		loc, err := r.resolver.Resolve(ctx, sd.Item)
		if err != nil {
			return nil, err
		}
		entries[i] = SensorLocation{
			SensorName: sd.Sensor,
			Timestamp:  sd.Item.Timestamp,
			RemotePath: loc.RemotePath,
			URL:        loc.URL,
		}
	}
	return FrameLocations{FrameID: f.ID, Frame: entries}, nil
}

type labelRenderer struct{}

func (labelRenderer) item(_ context.Context, it *dataset.DataItem) (any, error) {
	return ItemLabel{RemotePath: it.RemotePath(), Label: orEmpty(it.Label)}, nil
}

func (labelRenderer) frame(_ context.Context, f *dataset.Frame) (any, error) {
	entries := make([]SensorLabel, len(f.Data))
	for i, sd := range f.Data {
		entries[i] = SensorLabel{
			SensorName: sd.Sensor,
			RemotePath: sd.Item.RemotePath(),
			Timestamp:  sd.Item.Timestamp,
			Label:      orEmpty(sd.Item.Label),
		}
	}
	return FrameLabels{FrameID: f.ID, Frame: entries}, nil
}

var emptyPayload = dataset.Payload("{}")

// orEmpty substitutes {} for an absent payload. Encoders differ on whether a
// nil Marshaler slice is rendered as null.
func orEmpty(p dataset.Payload) dataset.Payload {
	if p.Empty() {
		return emptyPayload
	}
	return p
}
