// Package loader reads a dataset manifest from a storage backend and builds
// the immutable dataset served by the API.
//
// The manifest is JSON, optionally compressed; the codec is chosen by the
// object name's extension (.gz, .zst, .lz4). See Decode for the document
// layout.
package loader
