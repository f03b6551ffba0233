package middleware

import (
	"sync"
	"time"

	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/metrics"
	"go-fleet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter hands out one token bucket per key. Keys idle for longer
// than the idle timeout are swept on access; by then their bucket has
// refilled, so dropping it is indistinguishable from keeping it.
type KeyedRateLimiter struct {
	entries   map[string]*limiterEntry
	mu        *sync.Mutex
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type KeyedOption func(*KeyedRateLimiter)

func WithIdleTimeout(d time.Duration) KeyedOption {
	return func(k *KeyedRateLimiter) {
		if d > 0 {
			k.idle = d
		}
	}
}

func WithClock(now func() time.Time) KeyedOption {
	return func(k *KeyedRateLimiter) {
		if now != nil {
			k.now = now
		}
	}
}

func NewKeyedRateLimiter(r rate.Limit, b int, opts ...KeyedOption) *KeyedRateLimiter {
	k := &KeyedRateLimiter{
		entries: make(map[string]*limiterEntry),
		mu:      &sync.Mutex{},
		r:       r,
		b:       b,
		idle:    refillTime(r, b),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.lastSweep = k.now()
	return k
}

// refillTime is how long an empty bucket takes to fill, floored at a minute.
func refillTime(r rate.Limit, b int) time.Duration {
	d := time.Minute
	if r == rate.Inf || r <= 0 {
		return d
	}
	if full := time.Duration(float64(b) / float64(r) * float64(time.Second)); full > d {
		d = full
	}
	return d
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) >= k.idle {
		k.sweep(now)
	}

	e, exists := k.entries[key]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(k.r, k.b)}
		k.entries[key] = e
	}
	e.lastSeen = now

	return e.limiter
}

// Len reports how many keys currently hold a bucket.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *KeyedRateLimiter) sweep(now time.Time) {
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) >= k.idle {
			delete(k.entries, key)
		}
	}
	k.lastSweep = now
}

// PerWindow converts "max requests per window" into a token bucket that
// refills evenly and allows a full window's worth of burst.
func PerWindow(max int, window time.Duration) (rate.Limit, int) {
	if max <= 0 || window <= 0 {
		return rate.Inf, 0
	}
	return rate.Every(window / time.Duration(max)), max
}

// RateLimitByIP rejects callers over the limit with 429. name labels the
// limiter in metrics.
func RateLimitByIP(name string, r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			metrics.RateLimited.WithLabelValues(name).Inc()
			response.Abort(c, apperror.ErrRateLimited.HTTPStatus, apperror.ErrRateLimited.Code, apperror.ErrRateLimited.Message)
			return
		}
		c.Next()
	}
}

// RateLimitByUser keys on the authenticated user and lets anonymous calls
// through.
func RateLimitByUser(name string, r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.Next()
			return
		}
		if !limiter.GetLimiter(userID).Allow() {
			metrics.RateLimited.WithLabelValues(name).Inc()
			response.Abort(c, apperror.ErrRateLimited.HTTPStatus, apperror.ErrRateLimited.Code, apperror.ErrRateLimited.Message)
			return
		}
		c.Next()
	}
}
