// Package probe checks a running pharos server from the outside. It reads
// /healthz and scrapes /metrics, folding the counters into a Report.
package probe
