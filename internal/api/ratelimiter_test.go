package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow(*http.Request) bool {
	return s.allow
}

func TestRateLimitMiddlewareBlocksWhenLimiterDenies(t *testing.T) {
	middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler should not execute when rate limited")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimitMiddlewarePassesWhenLimiterAllows(t *testing.T) {
	var called bool
	middleware := rateLimitMiddleware(&staticLimiter{allow: true}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to execute when limiter allows")
	}
}

func TestNewTokenBucketLimiterUsesDefaults(t *testing.T) {
	limiter := newTokenBucketLimiter(0, 0)
	if limiter == nil {
		t.Fatalf("expected limiter instance")
	}
	if !limiter.Allow(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatalf("expected first request to be allowed")
	}
}

func TestClientLimiterIsolatesClients(t *testing.T) {
	limiter := newTokenBucketLimiter(1, 1)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:4000"
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.2:4000"

	if !limiter.Allow(first) {
		t.Fatalf("expected first client to be allowed")
	}
	if limiter.Allow(first) {
		t.Fatalf("expected first client to be limited on its second request")
	}
	if !limiter.Allow(second) {
		t.Fatalf("expected second client to have its own bucket")
	}

	samePort := httptest.NewRequest(http.MethodGet, "/", nil)
	samePort.RemoteAddr = "10.0.0.1:5000"
	if limiter.Allow(samePort) {
		t.Fatalf("expected limiter to key on host, not port")
	}
}

func TestClientKeyWithoutPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "pipe"
	if got := clientKey(req); got != "pipe" {
		t.Fatalf("expected raw remote addr, got %q", got)
	}
}
