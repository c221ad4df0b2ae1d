// Package paging applies offset/limit windows and sort order to ordered
// sequences.
package paging
