package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter tracks one token bucket per client IP. Entries idle for
// an hour are dropped on the next sweep to keep the map bounded.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	lastGC   time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(r float64, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(r),
		burst:    burst,
		lastGC:   time.Now(),
	}
}

func (cl *clientLimiter) allow(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	if now.Sub(cl.lastGC) > time.Hour {
		for key, entry := range cl.limiters {
			if now.Sub(entry.lastSeen) > time.Hour {
				delete(cl.limiters, key)
			}
		}
		cl.lastGC = now
	}

	entry, ok := cl.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// RateLimit throttles a route group per client IP. Used on signup so a
// single client cannot flood the outbound mail path.
func RateLimit(r float64, burst int) gin.HandlerFunc {
	cl := newClientLimiter(r, burst)
	return func(c *gin.Context) {
		if !cl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"kind": "rate_limited", "error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
