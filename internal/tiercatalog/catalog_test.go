package tiercatalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"momo-engine/internal/loyalty"
	"momo-engine/internal/metrics"
)

const shopTiers = `{"business_id":"shop-1","tiers":[
	{"name":"Member","min_points":0},
	{"name":"Insider","min_points":200,"benefits":["Early access"]}
]}`

type catalogServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newCatalogServer(t *testing.T) *catalogServer {
	t.Helper()
	cs := &catalogServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/businesses/"), "/tiers")
		switch {
		case id == "missing":
			http.NotFound(w, r)
		case id == "broken":
			w.WriteHeader(http.StatusInternalServerError)
		case id == "unsorted":
			w.Write([]byte(`{"tiers":[{"name":"B","min_points":10},{"name":"A","min_points":0}]}`))
		case id == "garbage":
			w.Write([]byte(`{"tiers":`))
		case id == "slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(shopTiers))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(shopTiers))
		}
	}))
	return cs
}

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: baseURL, Timeout: time.Second, CacheSize: 16, Concurrency: 4},
		loyalty.DefaultTiers(), zap.NewNop(), metrics.New())
	require.NoError(t, err)
	return c
}

func TestTiersFetchesAndCaches(t *testing.T) {
	srv := newCatalogServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)
	defer c.Close()

	tiers, err := c.Tiers(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "Insider", tiers[1].Name)
	assert.Equal(t, []string{"Early access"}, tiers[1].Benefits)

	_, err = c.Tiers(context.Background(), "shop-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), srv.hits.Load())
}

func TestTiersErrors(t *testing.T) {
	srv := newCatalogServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)
	defer c.Close()

	_, err := c.Tiers(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Tiers(context.Background(), "broken")
	assert.ErrorContains(t, err, "unexpected status 500")

	_, err = c.Tiers(context.Background(), "unsorted")
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = c.Tiers(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = c.Tiers(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyBusinessID)

	assert.Equal(t, 0, c.cache.Len())
}

func TestTiersHonoursContext(t *testing.T) {
	srv := newCatalogServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Tiers(ctx, "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDisabledClient(t *testing.T) {
	c := newClient(t, "")
	assert.False(t, c.Enabled())

	_, err := c.Tiers(context.Background(), "shop-1")
	assert.ErrorIs(t, err, ErrDisabled)

	tiers, fallback := c.TiersOrDefault(context.Background(), "shop-1")
	assert.True(t, fallback)
	assert.Equal(t, loyalty.DefaultTiers(), tiers)

	assert.Empty(t, c.Prefetch(context.Background(), []string{"shop-1"}))
}

func TestTiersOrDefault(t *testing.T) {
	srv := newCatalogServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)
	defer c.Close()

	tiers, fallback := c.TiersOrDefault(context.Background(), "shop-1")
	assert.False(t, fallback)
	assert.Len(t, tiers, 2)

	tiers, fallback = c.TiersOrDefault(context.Background(), "broken")
	assert.True(t, fallback)
	assert.Equal(t, c.Defaults(), tiers)
}

func TestPrefetchConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := newCatalogServer(t)
	c := newClient(t, srv.URL)

	ids := []string{"a", "b", "c", "d", "e", "f", "a", "", "missing", "broken"}
	failed := c.Prefetch(context.Background(), ids)

	require.Len(t, failed, 2)
	assert.ErrorIs(t, failed["missing"], ErrNotFound)
	assert.Contains(t, failed, "broken")
	assert.Equal(t, int64(8), srv.hits.Load())
	assert.Equal(t, 6, c.cache.Len())

	assert.Empty(t, c.Prefetch(context.Background(), []string{"a", "b"}))
	assert.Equal(t, int64(8), srv.hits.Load())

	c.Close()
	srv.Close()
}

func TestNewRejectsInvalidDefaults(t *testing.T) {
	_, err := New(Config{}, nil, nil, nil)
	assert.ErrorIs(t, err, loyalty.ErrNoTiers)
}

func TestFailedLookupsAreRemembered(t *testing.T) {
	srv := newCatalogServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)
	defer c.Close()

	failed := c.Prefetch(context.Background(), []string{"broken", "missing", "broken"})
	require.Len(t, failed, 2)
	assert.Equal(t, int64(2), srv.hits.Load())

	for i := 0; i < 5; i++ {
		tiers, fallback := c.TiersOrDefault(context.Background(), "broken")
		assert.True(t, fallback)
		assert.Equal(t, c.Defaults(), tiers)

		_, err := c.Tiers(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int64(2), srv.hits.Load())

	failed = c.Prefetch(context.Background(), []string{"broken"})
	assert.Contains(t, failed, "broken")
	assert.Equal(t, int64(2), srv.hits.Load())
}

func TestFailedLookupsExpire(t *testing.T) {
	srv := newCatalogServer(t)
	defer srv.Close()
	c, err := New(Config{BaseURL: srv.URL, Timeout: time.Second, FailureTTL: 20 * time.Millisecond},
		loyalty.DefaultTiers(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Tiers(context.Background(), "broken")
	require.Error(t, err)
	_, err = c.Tiers(context.Background(), "broken")
	require.Error(t, err)
	assert.Equal(t, int64(1), srv.hits.Load())

	time.Sleep(30 * time.Millisecond)
	_, err = c.Tiers(context.Background(), "broken")
	require.Error(t, err)
	assert.Equal(t, int64(2), srv.hits.Load())
}

func TestCancelledLookupIsNotRemembered(t *testing.T) {
	srv := newCatalogServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Tiers(ctx, "slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	tiers, err := c.Tiers(context.Background(), "slow")
	require.NoError(t, err)
	assert.Len(t, tiers, 2)
}
