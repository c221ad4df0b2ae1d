// Package storage provides the object storage backends pharos reads from.
//
// A Backend does two things:
//
//   - Open fetches an object (the dataset manifest) by name.
//   - URL resolves a remote data item path to a URL a client can fetch.
//     For object stores this is a presigned GET URL; it may perform I/O.
//
// Backends:
//
//	fs      local directory; URLs are file:// or prefixed with base_url
//	s3      AWS S3 or S3-compatible, via aws-sdk-go-v2 (presigned URLs)
//	minio   MinIO or S3-compatible, via minio-go (presigned URLs)
//	static  fixed HTTP base URL such as a CDN; cannot Open
//
// Names are slash-separated and relative to the backend's root or prefix.
package storage
