// Package view builds the mode-agnostic JSON documents served by the API.
//
// Every segment-scoped view is written once against dataset.Record: a plain
// segment's records are *dataset.DataItem, a fusion segment's are
// *dataset.Frame. A view supplies a renderer for each record kind and
// shares lookup, pagination and the response envelope:
//
//	Segments   {segments, offset, recordSize, totalCount}
//	DataURIs   {segmentName, type, urls, offset, recordSize, totalCount}
//	Labels     {segmentName, type, labels, offset, recordSize, totalCount}
//	Sensors    {segmentName, sensors}             fusion datasets only
//	Catalog    {catalogs}
//	LabelTypes {labelTypes}                       static, needs no dataset
//
// recordSize and totalCount always count top-level records (items or
// frames), never the per-sensor entries inside a frame.
package view
