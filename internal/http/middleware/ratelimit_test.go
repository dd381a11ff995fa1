package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/config"
	"github.com/sorgulen/tjenesteportal/internal/http/middleware"
)

func newTestRateLimiter(cfg *config.RateLimitConfig) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg, zap.NewNop())
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           false,
		RequestsPerMinute: 2,
	})

	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_EnforcesLimit(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 3,
		BurstSize:         3,
	})

	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	blocked := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			blocked++
		}
	}

	assert.Greater(t, blocked, 0, "requests past the limit should be rejected")
}

func TestRateLimiter_WhitelistedIP(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistIPs:      []string{"127.0.0.1"},
	})

	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_WhitelistedPath(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistPaths:    []string{"/health"},
	})

	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
