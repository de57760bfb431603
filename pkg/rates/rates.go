// Package rates supplies the CNY to EUR conversion rate used for prices.
package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/sheetshop/sheetshop/pkg/cache"
)

// Provider returns the current conversion rate.
type Provider interface {
	Rate(ctx context.Context) (float64, error)
}

// Static always returns the same rate.
type Static float64

// Rate implements Provider.
func (s Static) Rate(context.Context) (float64, error) { return float64(s), nil }

// HTTPConfig configures an HTTP rate provider.
type HTTPConfig struct {
	URL      string
	Path     string // gjson path of the rate in the response body
	TTL      time.Duration
	Fallback float64 // served when no fetch has succeeded yet
	RetryMax int
	Clock    cache.Clock
}

// HTTP fetches the rate from a JSON endpoint and memoizes it for TTL. After a
// failed refresh it keeps serving the last good value.
type HTTP struct {
	cfg    HTTPConfig
	client *retryablehttp.Client
	memo   *cache.Family[float64]

	mu       sync.Mutex
	lastGood float64
}

// NewHTTP returns an HTTP provider.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("rates: url is required")
	}
	if cfg.Path == "" {
		cfg.Path = "rates.EUR"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 6 * time.Hour
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.Logger = nil
	rc.HTTPClient.Timeout = 10 * time.Second

	return &HTTP{
		cfg:      cfg,
		client:   rc,
		memo:     cache.New[float64](cache.Options{Name: "rate", TTL: cfg.TTL, Capacity: 1, SingleFlight: true, Clock: cfg.Clock}),
		lastGood: cfg.Fallback,
	}, nil
}

// Rate implements Provider.
func (h *HTTP) Rate(ctx context.Context) (float64, error) {
	v, err := h.memo.Load(ctx, "rate", h.fetch)
	if err == nil {
		h.mu.Lock()
		h.lastGood = v
		h.mu.Unlock()
		return v, nil
	}

	h.mu.Lock()
	last := h.lastGood
	h.mu.Unlock()
	if last > 0 {
		return last, nil
	}
	return 0, err
}

func (h *HTTP) fetch(ctx context.Context) (float64, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, h.cfg.URL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rates: %s returned status %d", h.cfg.URL, resp.StatusCode)
	}
	res := gjson.GetBytes(body, h.cfg.Path)
	if !res.Exists() || res.Float() <= 0 {
		return 0, fmt.Errorf("rates: no positive value at %q", h.cfg.Path)
	}
	return res.Float(), nil
}
