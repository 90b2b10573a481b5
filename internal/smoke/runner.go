package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/parsab/itemd/internal/domain/item"
	"github.com/parsab/itemd/pkg/logger"
)

// Stats summarizes a smoke run.
type Stats struct {
	ItemsGenerated int
	ItemsSubmitted int
	ItemsEchoed    int
	Mismatches     int
	Failures       int
	DocsOK         bool
	HealthOK       bool
}

// Run generates items, submits them concurrently, and verifies that every
// accepted item is echoed back unchanged. It also probes the docs and
// health endpoints.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smoke config: %w", err)
	}

	log := logger.Get()
	stats := &Stats{}

	items := generateItems(cfg.NumItems)
	stats.ItemsGenerated = len(items)
	log.Info(ctx, "generated items", logger.Int("count", len(items)))

	client := &http.Client{Timeout: cfg.Timeout}

	var (
		submitted  int64
		echoed     int64
		mismatches int64
		failures   int64
	)

	itemChan := make(chan item.Item, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range itemChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&submitted, 1)
				switch submitOne(ctx, client, cfg.BaseURL+"/items/", it) {
				case resultEchoed:
					atomic.AddInt64(&echoed, 1)
				case resultMismatch:
					atomic.AddInt64(&mismatches, 1)
				case resultFailed:
					atomic.AddInt64(&failures, 1)
				}

				if cfg.Verbose {
					log.Debug(ctx, "submitted item", logger.String("name", it.Name))
				}
			}
		}()
	}

	go func() {
		defer close(itemChan)
		for _, it := range items {
			select {
			case <-ctx.Done():
				return
			case itemChan <- it:
			}
		}
	}()

	wg.Wait()

	stats.ItemsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ItemsEchoed = int(atomic.LoadInt64(&echoed))
	stats.Mismatches = int(atomic.LoadInt64(&mismatches))
	stats.Failures = int(atomic.LoadInt64(&failures))

	stats.DocsOK = probe(ctx, client, cfg.BaseURL+"/docs")
	stats.HealthOK = probe(ctx, client, cfg.BaseURL+"/healthz")

	log.Info(ctx, "smoke run finished",
		logger.Int("submitted", stats.ItemsSubmitted),
		logger.Int("echoed", stats.ItemsEchoed),
		logger.Int("mismatches", stats.Mismatches),
		logger.Int("failures", stats.Failures),
		logger.Bool("docsOK", stats.DocsOK),
		logger.Bool("healthOK", stats.HealthOK),
	)

	if stats.Mismatches > 0 || stats.Failures > 0 || !stats.DocsOK || !stats.HealthOK {
		return stats, fmt.Errorf("smoke run found problems: %d mismatches, %d failures", stats.Mismatches, stats.Failures)
	}
	return stats, nil
}

type submitResult int

const (
	resultEchoed submitResult = iota
	resultMismatch
	resultFailed
)

// submitOne posts a single item and verifies the echoed body.
func submitOne(ctx context.Context, client *http.Client, url string, it item.Item) submitResult {
	payload, err := json.Marshal(it)
	if err != nil {
		return resultFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return resultFailed
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return resultFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resultFailed
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resultFailed
	}

	var got item.Item
	if err := json.Unmarshal(body, &got); err != nil {
		return resultFailed
	}
	if !reflect.DeepEqual(got, it) {
		return resultMismatch
	}
	return resultEchoed
}

// probe issues a GET and reports whether the endpoint answered 200.
func probe(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
