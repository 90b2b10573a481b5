// Package smoke drives the running service with generated item traffic and
// verifies the echo contract end to end.
package smoke

import (
	"errors"
	"flag"
	"runtime"
	"time"
)

// Defaults for the smoke run.
const (
	defaultBaseURL  = "http://127.0.0.1:8000"
	defaultNumItems = 1000
	defaultTimeout  = 30 * time.Second
)

// Config controls a smoke run.
type Config struct {
	// BaseURL of the running service.
	BaseURL string

	// NumItems to generate and submit.
	NumItems int

	// Workers submitting items concurrently.
	Workers int

	// Timeout for each HTTP request.
	Timeout time.Duration

	// Verbose enables per-item progress logging.
	Verbose bool
}

// ParseFlags builds a Config from command line flags.
func ParseFlags() *Config {
	cfg := &Config{}
	flag.StringVar(&cfg.BaseURL, "url", defaultBaseURL, "base URL of the service")
	flag.IntVar(&cfg.NumItems, "items", defaultNumItems, "number of items to generate and submit")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "number of concurrent workers")
	flag.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	return cfg
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("url must not be empty")
	case c.NumItems <= 0:
		return errors.New("items must be positive")
	case c.Workers <= 0:
		return errors.New("workers must be positive")
	case c.Timeout <= 0:
		return errors.New("timeout must be positive")
	}
	return nil
}
