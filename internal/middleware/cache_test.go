package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib59/ecommerce-store/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestResponseCacheMissThenHit(t *testing.T) {
	_, rdb := newTestRedis(t)
	e := echo.New()

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"n": calls})
	}
	mw := ResponseCache(testCacheConfig(), rdb)(handler)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/products")
		require.NoError(t, mw(c))
		return rec
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	second := do()
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls, "handler must not run on a hit")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestResponseCacheSkipsUncachedMethods(t *testing.T) {
	_, rdb := newTestRedis(t)
	e := echo.New()

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusNoContent)
	}
	mw := ResponseCache(testCacheConfig(), rdb)(handler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/products", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/products")
		require.NoError(t, mw(c))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestResponseCacheKeyIncludesQuery(t *testing.T) {
	_, rdb := newTestRedis(t)
	e := echo.New()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, c.QueryParam("brand"))
	}
	mw := ResponseCache(testCacheConfig(), rdb)(handler)

	do := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/products")
		require.NoError(t, mw(c))
		return rec
	}

	do("/v1/products?brand=1")
	other := do("/v1/products?brand=2")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, "2", other.Body.String())
}

func TestResponseCacheDisabledIsPassThrough(t *testing.T) {
	e := echo.New()
	cfg := testCacheConfig()
	cfg.Enabled = false

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := ResponseCache(cfg, nil)(handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/brands", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(c))
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
