package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ITEMD_CONFIG is set
//  3. env (prefix ITEMD_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ITEMD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ITEMD_ADDR, ITEMD_MAX_UPLOAD_BYTES, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("ITEMD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "itemd_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.MaxBodyBytes <= 0:
		return nil, fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case cfg.MaxUploadBytes <= 0:
		return nil, fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case cfg.CSVRowLimit <= 0:
		return nil, fmt.Errorf("%w: csv_row_limit must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
