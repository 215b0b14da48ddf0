package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/hospital-api/internal/http/middlewares"
)

func TestMemoryCounterStoreWindow(t *testing.T) {
	store := middlewares.NewMemoryCounterStore()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, _, err := store.Incr(ctx, "k1", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("count = %d, want %d", got, want)
		}
	}

	// independent keys get independent counters
	got, _, err := store.Incr(ctx, "k2", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Fatalf("count for fresh key = %d, want 1", got)
	}
}

func TestMemoryCounterStoreWindowExpiry(t *testing.T) {
	store := middlewares.NewMemoryCounterStore()
	ctx := context.Background()

	if got, _, _ := store.Incr(ctx, "k", 10*time.Millisecond); got != 1 {
		t.Fatalf("first incr = %d, want 1", got)
	}
	if got, _, _ := store.Incr(ctx, "k", 10*time.Millisecond); got != 2 {
		t.Fatalf("second incr = %d, want 2", got)
	}

	time.Sleep(20 * time.Millisecond)

	if got, _, _ := store.Incr(ctx, "k", 10*time.Millisecond); got != 1 {
		t.Fatalf("incr after expiry = %d, want 1", got)
	}
}

func limitedRouter(rl *middlewares.RateLimiter) *gin.Engine {
	r := gin.New()
	r.GET("/login", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	rl := middlewares.NewRateLimiter(2, time.Minute, middlewares.NewMemoryCounterStore())
	r := limitedRouter(rl)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

type failingCounterStore struct{}

func (failingCounterStore) Incr(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("store unavailable")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rl := middlewares.NewRateLimiter(1, time.Minute, failingCounterStore{})
	r := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200 with failing store", i+1, w.Code)
		}
	}
}
