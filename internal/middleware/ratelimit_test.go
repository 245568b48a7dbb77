package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib59/ecommerce-store/internal/config"
)

func testRateLimitConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestRateLimitExhaustsBucket(t *testing.T) {
	_, rdb := newTestRedis(t)
	e := echo.New()

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RateLimit(testRateLimitConfig(2), rdb)(handler)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.9:12345"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/auth/login")
		require.NoError(t, mw(c))
		return rec
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := do()
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
}

func TestRateLimitKeysSeparateClients(t *testing.T) {
	_, rdb := newTestRedis(t)
	e := echo.New()

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RateLimit(testRateLimitConfig(1), rdb)(handler)

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/auth/login")
		require.NoError(t, mw(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:2222").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.2:3333").Code, "other IPs get their own bucket")
}

func TestRateLimitDisabledIsPassThrough(t *testing.T) {
	e := echo.New()
	cfg := testRateLimitConfig(1)
	cfg.Enabled = false

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RateLimit(cfg, nil)(handler)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, mw(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
