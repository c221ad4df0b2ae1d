// Package location resolves where a data item can be fetched from.
//
// Local items carry an embedded path that is returned as-is. Remote items
// carry an opaque storage path that is resolved to a URL on every call;
// nothing is cached or batched here.
package location
