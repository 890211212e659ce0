package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticLimiter struct {
	allow bool
	keys  []string
}

func (s *staticLimiter) Allow(key string) bool {
	s.keys = append(s.keys, key)
	return s.allow
}

func TestRateLimitMiddlewareRejectsWithRetryAfter(t *testing.T) {
	middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler should not execute when rate limited")
	}))

	rec := httptest.NewRecorder()
	middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/distributions", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header on rejected request")
	}
}

func TestRateLimitMiddlewareKeysByClientHost(t *testing.T) {
	limiter := &staticLimiter{allow: true}
	var called bool
	middleware := rateLimitMiddleware(limiter, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "10.1.2.3:51234"
	middleware.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatalf("expected handler to execute when limiter allows")
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "10.1.2.3" {
		t.Fatalf("expected limiter keyed by host, got %v", limiter.keys)
	}
}

func TestClientKeyFallsBackToRawAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "unix-socket"
	if got := clientKey(req); got != "unix-socket" {
		t.Fatalf("expected raw address, got %q", got)
	}
}

func TestClientLimiterIsolatesClients(t *testing.T) {
	limiter := newClientLimiter(0, 0)

	if !limiter.Allow("a") {
		t.Fatalf("expected first request from a to be allowed")
	}
	if limiter.Allow("a") {
		t.Fatalf("expected burst of one to reject an immediate second request from a")
	}
	if !limiter.Allow("b") {
		t.Fatalf("expected b to have its own bucket")
	}
}

func TestClientLimiterEvictsIdleBuckets(t *testing.T) {
	limiter := newClientLimiter(1, 1)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	limiter.Allow("b")
	if limiter.size() != 2 {
		t.Fatalf("expected two buckets, got %d", limiter.size())
	}

	now = now.Add(clientIdleTTL + time.Second)
	limiter.Allow("c")
	if limiter.size() != 1 {
		t.Fatalf("expected idle buckets to be evicted, got %d", limiter.size())
	}
}

func TestNilLimiterMiddlewareIsPassThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	rateLimitMiddleware(nil, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
