// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's error kinds.
package config

// Default limits for request bodies and uploads.
const (
	defaultMaxBodyBytes   = 1 << 20  // 1 MiB JSON body cap
	defaultMaxUploadBytes = 16 << 20 // 16 MiB multipart upload cap
	defaultCSVRowLimit    = 10_000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. "127.0.0.1:8000".
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps the size of JSON request bodies on POST /items/.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MaxUploadBytes caps multipart uploads on POST /convert.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CSVRowLimit bounds the number of rows rendered in a Markdown table.
	CSVRowLimit int `koanf:"csv_row_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           "127.0.0.1:8000",
		MaxBodyBytes:   defaultMaxBodyBytes,
		MaxUploadBytes: defaultMaxUploadBytes,
		CSVRowLimit:    defaultCSVRowLimit,
	}
}
