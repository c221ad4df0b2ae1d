// Package metrics keeps the server's request and resolution metrics and
// serves them in the Prometheus exposition formats.
//
// Families exposed on /metrics, besides the Go runtime and process
// collectors:
//
//	pharos_http_requests_total{route,code}           counter
//	pharos_http_request_duration_seconds{route}      histogram
//	pharos_location_resolve_failures_total           counter
//	pharos_dataset_loaded                            gauge, 1 once the dataset is bound
package metrics
