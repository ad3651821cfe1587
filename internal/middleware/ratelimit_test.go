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

	"github.com/iliyamo/cinereview/internal/config"
)

func limitedServer(cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.Use(RateLimit(cfg, rdb))
	e.GET("/reviews", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func testLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "test:rl",
	}
}

func TestRateLimitBlocksAfterCapacity(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	e := limitedServer(testLimitConfig(), rdb)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		last = rec
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate limit exceeded")

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.True(t, mr.Exists("test:rl:ip:10.0.0.1"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	e := limitedServer(testLimitConfig(), rdb)
	mr.Close()

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := testLimitConfig()
	cfg.Enabled = false
	e := limitedServer(cfg, nil)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/submit-review/tt1", nil)
	req.RemoteAddr = "10.1.1.1:80"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/submit-review/:movieId")
	c.Set(SubjectKey, "auth0|ann")

	cfg := config.RateLimitConfig{Prefix: "p"}
	cfg.KeyStrategy = "user"
	assert.Equal(t, "p:user:auth0|ann", rateKey(cfg, c))
	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "p:ip:10.1.1.1:route:POST /submit-review/:movieId", rateKey(cfg, c))
	cfg.KeyStrategy = ""
	assert.Equal(t, "p:ip:10.1.1.1:user:auth0|ann:route:POST /submit-review/:movieId", rateKey(cfg, c))
}
