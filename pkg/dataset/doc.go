// Package dataset defines the in-memory dataset model served by pharos.
//
// A Dataset is either Plain or Fusion, fixed at construction:
//
//   - Plain datasets hold PlainSegments, each an ordered list of DataItems.
//   - Fusion datasets hold FusionSegments, each an ordered list of Frames plus
//     a SensorSet. A Frame maps sensor names to timestamped DataItems.
//
// Both segment kinds satisfy the Segment interface. Records returns the
// segment's top-level entries in insertion order, which is the order every
// paginated view walks.
//
// Labels, sensor sets and catalogs are opaque JSON payloads (Payload) carried
// through unchanged. Nothing in this package mutates a Dataset after New.
package dataset
