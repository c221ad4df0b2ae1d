// Package store holds the dataset served by the process.
//
// A Store is created empty, so the HTTP server can start before the dataset
// has finished loading, and is initialised exactly once with Init. After that
// the dataset is read concurrently by every request without locking; the
// atomic publish in Init is the only synchronisation point.
package store
