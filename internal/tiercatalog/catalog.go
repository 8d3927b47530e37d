// Package tiercatalog fetches business loyalty tier lists from the catalog service.
package tiercatalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"momo-engine/internal/loyalty"
	"momo-engine/internal/metrics"
)

var (
	ErrDisabled        = errors.New("tier catalog not configured")
	ErrNotFound        = errors.New("business has no tier catalog")
	ErrInvalidCatalog  = errors.New("tier catalog is invalid")
	ErrEmptyBusinessID = errors.New("business id is empty")
)

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	CacheSize   int
	Concurrency int
	// FailureTTL bounds how long a failed lookup is served from memory.
	FailureTTL  time.Duration
}

type Client struct {
	baseURL     string
	concurrency int
	http        *http.Client
	cache       *lru.Cache[string, []loyalty.Tier]
	failures    *lru.Cache[string, failure]
	failureTTL  time.Duration
	defaults    []loyalty.Tier
	log         *zap.Logger
	metrics     *metrics.Metrics
}

type failure struct {
	err error
	at  time.Time
}

type catalogResponse struct {
	BusinessID string         `json:"business_id"`
	Tiers      []loyalty.Tier `json:"tiers"`
}

func New(cfg Config, defaults []loyalty.Tier, log *zap.Logger, m *metrics.Metrics) (*Client, error) {
	if err := loyalty.Validate(defaults); err != nil {
		return nil, fmt.Errorf("default tiers: %w", err)
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, []loyalty.Tier](size)
	if err != nil {
		return nil, fmt.Errorf("creating tier cache: %w", err)
	}
	failures, err := lru.New[string, failure](size)
	if err != nil {
		return nil, fmt.Errorf("creating failure cache: %w", err)
	}
	failureTTL := cfg.FailureTTL
	if failureTTL <= 0 {
		failureTTL = 30 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		concurrency: concurrency,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cache:      cache,
		failures:   failures,
		failureTTL: failureTTL,
		defaults:   defaults,
		log:        log.Named("tiercatalog"),
		metrics:    m,
	}, nil
}

// Enabled reports whether remote lookups are configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Defaults returns the fallback tier list.
func (c *Client) Defaults() []loyalty.Tier {
	return c.defaults
}

// Tiers returns the tier list of a business, from cache when possible. A
// failed lookup is returned again without fetching until FailureTTL elapses.
func (c *Client) Tiers(ctx context.Context, businessID string) ([]loyalty.Tier, error) {
	if businessID == "" {
		return nil, ErrEmptyBusinessID
	}
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if tiers, ok := c.cache.Get(businessID); ok {
		c.metrics.ObserveTierLookup("hit")
		return tiers, nil
	}
	if err := c.recentFailure(businessID); err != nil {
		c.metrics.ObserveTierLookup("failed")
		return nil, err
	}
	c.metrics.ObserveTierLookup("miss")

	tiers, err := c.fetch(ctx, businessID)
	if err != nil {
		c.recordFailure(ctx, businessID, err)
		return nil, err
	}
	c.cache.Add(businessID, tiers)
	return tiers, nil
}

// TiersOrDefault never fails: any lookup error yields the default tiers and
// fallback is set.
func (c *Client) TiersOrDefault(ctx context.Context, businessID string) (tiers []loyalty.Tier, fallback bool) {
	tiers, err := c.Tiers(ctx, businessID)
	if err != nil {
		if !errors.Is(err, ErrDisabled) {
			c.log.Warn("using default tiers", zap.String("business_id", businessID), zap.Error(err))
		}
		c.metrics.ObserveTierLookup("fallback")
		return c.defaults, true
	}
	return tiers, false
}

// Prefetch warms the cache for businessIDs concurrently. Failed ids are
// returned with their error and remembered for FailureTTL.
func (c *Client) Prefetch(ctx context.Context, businessIDs []string) map[string]error {
	failed := make(map[string]error)
	if !c.Enabled() {
		return failed
	}

	seen := make(map[string]struct{}, len(businessIDs))
	var toFetch []string
	for _, id := range businessIDs {
		if id == "" || c.cache.Contains(id) {
			continue
		}
		if err := c.recentFailure(id); err != nil {
			failed[id] = err
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		toFetch = append(toFetch, id)
	}
	if len(toFetch) == 0 {
		return failed
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, id := range toFetch {
		id := id
		g.Go(func() error {
			tiers, err := c.fetch(ctx, id)
			if err != nil {
				c.recordFailure(ctx, id, err)
				mu.Lock()
				failed[id] = err
				mu.Unlock()
				return nil
			}
			c.cache.Add(id, tiers)
			return nil
		})
	}
	_ = g.Wait()

	c.log.Debug("prefetched tier catalogs",
		zap.Int("requested", len(toFetch)),
		zap.Int("failed", len(failed)))
	return failed
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) recentFailure(businessID string) error {
	f, ok := c.failures.Get(businessID)
	if !ok {
		return nil
	}
	if time.Since(f.at) >= c.failureTTL {
		c.failures.Remove(businessID)
		return nil
	}
	return f.err
}

// recordFailure skips errors caused by the caller giving up.
func (c *Client) recordFailure(ctx context.Context, businessID string, err error) {
	if ctx.Err() != nil {
		return
	}
	c.failures.Add(businessID, failure{err: err, at: time.Now()})
}

func (c *Client) fetch(ctx context.Context, businessID string) ([]loyalty.Tier, error) {
	u := c.baseURL + "/businesses/" + url.PathEscape(businessID) + "/tiers"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tiers for %s: %w", businessID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, businessID)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetching tiers for %s: unexpected status %d", businessID, resp.StatusCode)
	}

	var cr catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidCatalog, businessID, err)
	}
	if err := loyalty.Validate(cr.Tiers); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, businessID, err)
	}
	return cr.Tiers, nil
}
