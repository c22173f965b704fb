package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Token-bucket rate limiting keyed per client IP. State is kept in-process,
// which is the right scope for a single-instance hub; a multi-instance
// deployment would need a shared store.

// keyFunc derives the rate-limit key for a request.
type keyFunc func(c *gin.Context) string

// KeyByIP keys the limiter on the client IP as resolved by Gin (honouring
// trusted proxy settings).
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// visitor holds one client's limiter plus the last time it was used, so idle
// entries can be evicted.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is an in-memory per-key token-bucket limiter with periodic
// garbage collection of idle visitors.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	rps   rate.Limit
	burst int
	key   keyFunc

	ttl     time.Duration
	lookups int
}

// NewRateLimiter builds a limiter allowing rps sustained requests with the
// given burst per key. A nil key function defaults to KeyByIP.
func NewRateLimiter(rps float64, burst int, key keyFunc) *RateLimiter {
	if key == nil {
		key = KeyByIP
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		key:      key,
		ttl:      10 * time.Minute,
	}
}

// getVisitor fetches or creates the limiter for a key, opportunistically
// sweeping idle entries every few thousand lookups.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= 5000 {
		rl.lookups = 0
		cutoff := time.Now().Add(-rl.ttl)
		for k, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, k)
			}
		}
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Handler returns the Gin middleware enforcing the limit. Rejected requests
// receive a JSON 429 with a Retry-After hint.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(rl.key(c)).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "rate_limited",
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}
