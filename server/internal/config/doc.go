// Package config loads the pharos configuration from a YAML file.
//
// Config sections:
//   - server  : HTTP port, per-request timeout, optional rate limit
//   - log     : level (debug|info|warn|error) and format (json|console)
//   - dataset : manifest location, the backend it is read from, and the
//     per-request remote URL resolution concurrency
//   - storage : the backend used to resolve remote items to URLs
//     (fs | s3 | minio | static)
//
// Secrets are never stored in the file: access_key_env / secret_key_env name
// the environment variables that hold them.
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, log, fn) reloads the file on change; only the log section is
// applied at runtime.
package config
