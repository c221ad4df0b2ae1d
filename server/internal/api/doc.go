// Package api implements the HTTP query API of the pharos server.
//
// New returns an http.Handler that serves:
//
//	GET /segments     paginated segment list
//	GET /catalogs     dataset catalog
//	GET /labels       paginated labels of segmentName
//	GET /sensors      sensor metadata of segmentName (fusion datasets only)
//	GET /data/urls    paginated resolved item locations of segmentName
//	GET /labelTypes   fixed label-kind registry
//	GET /healthz      load state of the dataset
//	GET /metrics      Prometheus exposition (when a registry is configured)
//
// Paginated routes accept limit (default 128), offset (default 0) and sortBy
// (asc|desc). Negative limit and offset are treated as 0.
//
// All endpoints:
//   - Respond with Content-Type: application/json, except /metrics
//   - Return 405 for non-GET methods
//   - Report failures as {"error": "..."}
//
// JSON types are defined in types.go and in the view package. No external
// HTTP framework is used.
package api
