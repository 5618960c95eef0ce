package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitedCode is the error code written when a client is throttled.
const RateLimitedCode = "RATE_LIMITED"

// idleLimiterTTL is how long a client's bucket survives without traffic.
// Any bucket idle for a full minute has refilled, so dropping it loses nothing.
const idleLimiterTTL = 10 * time.Minute

// ClientLimiter hands out one token bucket per client IP. Buckets idle for
// longer than idleLimiterTTL are swept on a later Allow.
type ClientLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientBucket
	every     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter allows perMinute events per client, with bursts up to perMinute.
func NewClientLimiter(perMinute int) *ClientLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &ClientLimiter{
		limiters:  make(map[string]*clientBucket),
		every:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// Allow reports whether the client may proceed now.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= idleLimiterTTL {
		l.sweep(now)
	}
	b, ok := l.limiters[client]
	if !ok {
		b = &clientBucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.limiters[client] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.lim.AllowN(now, 1)
}

// Clients returns the number of buckets currently tracked.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// sweep drops idle buckets. Callers hold l.mu.
func (l *ClientLimiter) sweep(now time.Time) {
	for client, b := range l.limiters {
		if now.Sub(b.lastSeen) >= idleLimiterTTL {
			delete(l.limiters, client)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects requests with 429 once a client exceeds its budget.
// Attach it to individual routes, not the whole router.
func RateLimit(limiter *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := c.ClientIP()
		if limiter.Allow(client) {
			c.Next()
			return
		}

		requestID := GetRequestID(c)
		if log := GetLogger(c); log != nil {
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"request_id": requestID,
				"client_ip":  client,
				"path":       c.Request.URL.Path,
			})
		}

		c.Header("Retry-After", "60")
		abortJSON(c, http.StatusTooManyRequests, RateLimitedCode, "Too many requests, please try again later")
	}
}
