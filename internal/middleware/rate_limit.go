package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdleTTL is how long a key may stay unused before its bucket is
// dropped.
const DefaultLimiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter hands out one token bucket per key (client IP or employee).
// Buckets idle for longer than the idle TTL are evicted on a later lookup.
type KeyedRateLimiter struct {
	limiters  map[string]*keyedLimiter
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type KeyedRateLimiterOption func(*KeyedRateLimiter)

func WithIdleTTL(ttl time.Duration) KeyedRateLimiterOption {
	return func(k *KeyedRateLimiter) {
		if ttl > 0 {
			k.idleTTL = ttl
		}
	}
}

func withClock(now func() time.Time) KeyedRateLimiterOption {
	return func(k *KeyedRateLimiter) {
		k.now = now
	}
}

func NewKeyedRateLimiter(r rate.Limit, b int, opts ...KeyedRateLimiterOption) *KeyedRateLimiter {
	k := &KeyedRateLimiter{
		limiters: make(map[string]*keyedLimiter),
		r:        r,
		b:        b,
		idleTTL:  DefaultLimiterIdleTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	// A bucket idle long enough to refill completely carries no state.
	if r > 0 && r != rate.Inf {
		if full := time.Duration(float64(b) / float64(r) * float64(time.Second)); full > k.idleTTL {
			k.idleTTL = full
		}
	}
	k.lastSweep = k.now()
	return k
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) >= k.idleTTL {
		k.sweep(now)
	}

	entry, exists := k.limiters[key]
	if !exists {
		entry = &keyedLimiter{limiter: rate.NewLimiter(k.r, k.b)}
		k.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// Len reports how many keys currently hold a bucket.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

func (k *KeyedRateLimiter) sweep(now time.Time) {
	for key, entry := range k.limiters {
		if now.Sub(entry.lastSeen) >= k.idleTTL {
			delete(k.limiters, key)
		}
	}
	k.lastSweep = now
}

func tooManyRequests(c *gin.Context, message string) {
	response.Abort(c, http.StatusTooManyRequests, apperror.CodeTooManyRequests, message)
}

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			tooManyRequests(c, "Too many requests from this IP")
			return
		}
		c.Next()
	}
}

// RateLimitByUser: r = requests per second, b = burst. Anonymous requests pass.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		employeeID := c.GetString(ContextEmployeeID)
		if employeeID == "" {
			c.Next()
			return
		}
		if !limiter.GetLimiter(employeeID).Allow() {
			tooManyRequests(c, "Too many requests from this user")
			return
		}
		c.Next()
	}
}
