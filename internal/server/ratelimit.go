// file: internal/server/ratelimit.go
// version: 1.1.0
// guid: 7e8f9a0b-1c2d-3e4f-5a6b-7c8d9e0f1a2b

package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientBucket pairs a token bucket with its last activity time so the
// limiter map does not grow without bound.
type clientBucket struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter throttles requests per client IP. The demo server binds to
// loopback, but the /api routes are still cheap to abuse from a misbehaving
// browser tab, so requests beyond the budget get a 429.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
	maxIdle time.Duration
}

// NewIPRateLimiter creates a limiter allowing requestsPerMinute sustained
// requests with the given burst per client.
func NewIPRateLimiter(requestsPerMinute, burst int) *IPRateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
		maxIdle: 15 * time.Minute,
	}
}

// allow reports whether the client may proceed, sweeping idle entries while
// it holds the lock.
func (l *IPRateLimiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, client := range l.clients {
		if now.Sub(client.lastSeen) > l.maxIdle {
			delete(l.clients, key)
		}
	}

	client, ok := l.clients[ip]
	if !ok {
		client = &clientBucket{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now
	return client.bucket.Allow()
}

// Middleware returns a Gin middleware that enforces the configured limit.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.allow(ip) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
