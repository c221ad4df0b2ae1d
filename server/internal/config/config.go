package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort           = 8080
	DefaultRequestTimeout     = 30 * time.Second
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultManifest           = "dataset.json"
	DefaultResolveConcurrency = 8
	DefaultPresignTTL         = 15 * time.Minute
)

// Config is the top-level pharos configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Dataset DatasetConfig `yaml:"dataset"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the query API listens on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// RequestTimeout bounds each request, including remote URL resolution.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RateLimit is the sustained request rate in requests/second.
	// Zero disables rate limiting.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the limiter bucket size. Defaults to RateLimit rounded up.
	RateBurst int `yaml:"rate_burst"`
}

// LogConfig controls the process logger. Level is hot-reloadable.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`

	// Format is one of: json | console.
	Format string `yaml:"format"`
}

// DatasetConfig locates the dataset manifest.
type DatasetConfig struct {
	// Manifest is the manifest path (fs) or object key (s3, minio).
	// A .gz, .zst or .lz4 suffix selects decompression.
	Manifest string `yaml:"manifest"`

	// Source names the backend the manifest is read from: fs | s3 | minio.
	// Defaults to fs.
	Source string `yaml:"source"`

	// ResolveConcurrency bounds parallel remote URL resolutions per request.
	ResolveConcurrency int `yaml:"resolve_concurrency"`
}

// StorageConfig selects and configures the backend that resolves remote items.
type StorageConfig struct {
	// Backend is one of: fs | s3 | minio | static.
	Backend string `yaml:"backend"`

	FS     FSConfig     `yaml:"fs"`
	S3     S3Config     `yaml:"s3"`
	MinIO  MinIOConfig  `yaml:"minio"`
	Static StaticConfig `yaml:"static"`
}

// FSConfig is a local directory backend.
type FSConfig struct {
	// Root is the directory remote paths are relative to.
	Root string `yaml:"root"`

	// BaseURL, when set, is prefixed to remote paths instead of a file:// URL.
	BaseURL string `yaml:"base_url"`
}

// S3Config is an S3-compatible backend accessed with the AWS SDK.
type S3Config struct {
	Bucket       string        `yaml:"bucket"`
	Prefix       string        `yaml:"prefix"`
	Region       string        `yaml:"region"`
	Endpoint     string        `yaml:"endpoint"`
	UsePathStyle bool          `yaml:"use_path_style"`
	AccessKeyEnv string        `yaml:"access_key_env"`
	SecretKeyEnv string        `yaml:"secret_key_env"`
	PresignTTL   time.Duration `yaml:"presign_ttl"`
}

// AccessKey returns the access key resolved from the environment.
func (c S3Config) AccessKey() string { return lookupEnv(c.AccessKeyEnv) }

// SecretKey returns the secret key resolved from the environment.
func (c S3Config) SecretKey() string { return lookupEnv(c.SecretKeyEnv) }

// MinIOConfig is a MinIO (or other S3-compatible) backend accessed with minio-go.
type MinIOConfig struct {
	// Endpoint is host:port without scheme.
	Endpoint     string        `yaml:"endpoint"`
	Bucket       string        `yaml:"bucket"`
	Prefix       string        `yaml:"prefix"`
	Region       string        `yaml:"region"`
	Secure       bool          `yaml:"secure"`
	AccessKeyEnv string        `yaml:"access_key_env"`
	SecretKeyEnv string        `yaml:"secret_key_env"`
	PresignTTL   time.Duration `yaml:"presign_ttl"`
}

// AccessKey returns the access key resolved from the environment.
func (c MinIOConfig) AccessKey() string { return lookupEnv(c.AccessKeyEnv) }

// SecretKey returns the secret key resolved from the environment.
func (c MinIOConfig) SecretKey() string { return lookupEnv(c.SecretKeyEnv) }

// StaticConfig maps remote paths onto a fixed HTTP base URL (e.g. a CDN).
type StaticConfig struct {
	BaseURL string `yaml:"base_url"`
}

func lookupEnv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values. It is also
// what `pharos serve` runs with when no config file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       DefaultHTTPPort,
			RequestTimeout: DefaultRequestTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Dataset: DatasetConfig{
			Manifest:           DefaultManifest,
			Source:             "fs",
			ResolveConcurrency: DefaultResolveConcurrency,
		},
		Storage: StorageConfig{
			Backend: "fs",
			FS:      FSConfig{Root: "."},
			S3:      S3Config{PresignTTL: DefaultPresignTTL},
			MinIO:   MinIOConfig{PresignTTL: DefaultPresignTTL},
		},
	}
}

// Validate checks structural constraints and fills derived defaults.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", c.Server.HTTPPort)
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		c.Server.RateBurst = int(c.Server.RateLimit + 0.999)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q unknown: want json|console", c.Log.Format)
	}

	if c.Dataset.Manifest == "" {
		return fmt.Errorf("dataset.manifest is required")
	}
	if c.Dataset.Source == "" {
		c.Dataset.Source = "fs"
	}
	switch c.Dataset.Source {
	case "fs", "s3", "minio":
	default:
		return fmt.Errorf("dataset.source %q unknown: want fs|s3|minio", c.Dataset.Source)
	}
	if c.Dataset.ResolveConcurrency <= 0 {
		c.Dataset.ResolveConcurrency = DefaultResolveConcurrency
	}

	if err := c.Storage.validate(c.Storage.Backend); err != nil {
		return err
	}
	// The manifest may come from a different backend than item URLs.
	if c.Dataset.Source != c.Storage.Backend {
		if err := c.Storage.validate(c.Dataset.Source); err != nil {
			return fmt.Errorf("dataset.source %q: %w", c.Dataset.Source, err)
		}
	}
	return nil
}

// validate checks the section of the named backend.
func (s *StorageConfig) validate(backend string) error {
	switch backend {
	case "fs":
		if s.FS.Root == "" {
			s.FS.Root = "."
		}
	case "s3":
		if s.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required")
		}
		if s.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required")
		}
		if s.S3.PresignTTL <= 0 {
			s.S3.PresignTTL = DefaultPresignTTL
		}
	case "minio":
		if s.MinIO.Endpoint == "" || s.MinIO.Bucket == "" {
			return fmt.Errorf("storage.minio.endpoint and storage.minio.bucket are required")
		}
		if s.MinIO.PresignTTL <= 0 {
			s.MinIO.PresignTTL = DefaultPresignTTL
		}
	case "static":
		if s.Static.BaseURL == "" {
			return fmt.Errorf("storage.static.base_url is required")
		}
	default:
		return fmt.Errorf("storage.backend %q unknown: want fs|s3|minio|static", backend)
	}
	return nil
}
