package middlewares

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CounterStore tracks fixed-window request counts per key. The redis-backed
// implementation keeps the server process stateless between requests; the
// in-process one is the single-instance fallback.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, retryAfter time.Duration, err error)
}

type RateLimiter struct {
	limit  int
	window time.Duration
	store  CounterStore
}

func NewRateLimiter(limit int, window time.Duration, store CounterStore) *RateLimiter {
	if store == nil {
		store = NewMemoryCounterStore()
	}

	return &RateLimiter{
		limit:  limit,
		window: window,
		store:  store,
	}
}

// RateLimiterMiddleware returns a gin.HandlerFunc that enforces the limit for
// a derived key.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			// limiting disabled
			c.Next()
			return
		}

		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		count, retryAfter, err := rl.store.Incr(c.Request.Context(), "ratelimit:"+key, rl.window)

		if err != nil {
			// counter store down: fail open rather than lock everyone out
			c.Next()
			return
		}

		if count > rl.limit {
			secs := int(retryAfter.Seconds())

			if secs < 0 {
				secs = 0
			}

			c.Header("Retry-After", strconv.Itoa(secs))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again shortly.",
				},
			})
			return
		}

		c.Next()
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by userID if available

func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)

	if ok && id != "" {
		return "user:" + id
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// Gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	// Normalize ipv6 zone

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}

// MemoryCounterStore is the in-process window counter.

type MemoryCounterStore struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		clients: make(map[string]*clientBucket),
	}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// drop expired buckets so the map only tracks live windows
	for k, b := range s.clients {
		if now.After(b.windowEnd) {
			delete(s.clients, k)
		}
	}

	b, ok := s.clients[key]

	if !ok {
		s.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(window),
		}
		return 1, window, nil
	}

	b.count++
	return b.count, time.Until(b.windowEnd), nil
}

// RedisCounterStore keeps the window counters in redis so limits hold across
// instances.

type RedisCounterStore struct {
	rdb *redis.Client
}

func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	pipe := s.rdb.TxPipeline()

	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)

	_, err := pipe.Exec(ctx)

	if err != nil {
		return 0, 0, err
	}

	return int(incr.Val()), ttl.Val(), nil
}
