// Package app provides the core service that implements the dependencies
// required by the HTTP API.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/parsab/itemd/internal/domain/convert"
	"github.com/parsab/itemd/internal/domain/item"
	"github.com/parsab/itemd/pkg/logger"
	"github.com/parsab/itemd/pkg/metrics"
)

// Defaults for service construction.
const (
	defaultMaxUploadBytes = 16 << 20
	defaultCSVRowLimit    = 10_000
)

// Service implements the API dependencies for the item demo system.
type Service struct {
	mu sync.RWMutex

	converter *convert.Converter

	// Configuration
	maxUploadBytes int64
	csvRowLimit    int

	// State
	started   bool
	startedAt time.Time

	// Counters
	itemsAccepted      atomic.Int64
	itemsRejected      atomic.Int64
	conversions        atomic.Int64
	conversionFailures atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxUploadBytes caps the size of documents accepted for conversion.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithCSVRowLimit bounds the rows rendered into Markdown tables.
func WithCSVRowLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.csvRowLimit = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxUploadBytes: defaultMaxUploadBytes,
		csvRowLimit:    defaultCSVRowLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.converter = convert.New(
		convert.WithRowLimit(s.csvRowLimit),
	)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "item service started",
		logger.Int64("maxUploadBytes", s.maxUploadBytes),
		logger.Int("csvRowLimit", s.csvRowLimit),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "item service stopped")
}

// EchoItem validates it against the item schema and returns it unchanged.
// A *item.ValidationError is returned when any constraint fails.
func (s *Service) EchoItem(ctx context.Context, it item.Item) (item.Item, error) {
	if err := it.Validate(); err != nil {
		s.itemsRejected.Add(1)
		metrics.RecordItemRejected()
		s.logger.Debug(ctx, "item rejected", logger.Error(err))
		return item.Item{}, err
	}

	s.itemsAccepted.Add(1)
	metrics.RecordItemAccepted()
	s.logger.Debug(ctx, "item accepted",
		logger.String("name", it.Name),
		logger.Float64("price", *it.Price),
	)
	return it, nil
}

// Convert reads a document from r and returns its Markdown rendition.
// Unsupported formats are rejected before the upload is buffered; uploads
// larger than the configured cap fail as conversion errors.
func (s *Service) Convert(ctx context.Context, filename string, r io.Reader) (string, error) {
	if _, ok := convert.FormatFor(filename); !ok {
		s.recordConversionFailure("unsupported_format")
		return "", fmt.Errorf("%w: %s", convert.ErrUnsupportedFormat, filepath.Ext(filename))
	}

	limited := io.LimitReader(r, s.maxUploadBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		s.recordConversionFailure("read")
		return "", fmt.Errorf("%w: read upload: %w", convert.ErrConversion, err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		s.recordConversionFailure("too_large")
		return "", fmt.Errorf("%w: upload exceeds %d bytes", convert.ErrConversion, s.maxUploadBytes)
	}
	metrics.ObserveUploadSize(int64(len(data)))

	out, format, err := s.converter.Convert(ctx, filename, bytes.NewReader(data))
	if err != nil {
		s.recordConversionFailure("conversion")
		s.logger.Warn(ctx, "conversion failed",
			logger.String("filename", filename),
			logger.Error(err),
		)
		return "", err
	}

	s.conversions.Add(1)
	metrics.RecordConversion(format)
	s.logger.Debug(ctx, "document converted",
		logger.String("filename", filename),
		logger.String("format", format),
		logger.Int("outputBytes", len(out)),
	)
	return out, nil
}

func (s *Service) recordConversionFailure(reason string) {
	s.conversionFailures.Add(1)
	metrics.RecordConversionFailure(reason)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"itemsAccepted":      int(s.itemsAccepted.Load()),
		"itemsRejected":      int(s.itemsRejected.Load()),
		"conversions":        int(s.conversions.Load()),
		"conversionFailures": int(s.conversionFailures.Load()),
		"maxUploadBytes":     s.maxUploadBytes,
	}
	if s.started {
		uptime := time.Since(s.startedAt).Seconds()
		stats["uptimeSeconds"] = uptime
		metrics.UpdateUptime(uptime)
	}
	return stats
}
