package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/surdiana/userhub/internal/errors"
	"github.com/surdiana/userhub/internal/response"
	"github.com/surdiana/userhub/pkg/logger"
	"go.uber.org/zap"
)

type windowEntry struct {
	count       int
	windowStart time.Time
}

// RateLimiter is a fixed-window per-key request counter. Prune, check and
// update run as one critical section so concurrent callers sharing an
// instance observe a consistent window. Fixed windows accept bursts at
// window boundaries; that is a known property of the scheme, not a bug.
type RateLimiter struct {
	window  time.Duration
	mu      sync.Mutex
	entries map[string]*windowEntry
}

func NewRateLimiter(window time.Duration) *RateLimiter {
	return &RateLimiter{
		window:  window,
		entries: make(map[string]*windowEntry),
	}
}

// CheckAndUpdate records one request for key and reports whether it is
// allowed under the given limit. Expired windows are pruned first.
func (rl *RateLimiter) CheckAndUpdate(key string, limit int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for k, e := range rl.entries {
		if now.Sub(e.windowStart) >= rl.window {
			delete(rl.entries, k)
		}
	}

	entry, ok := rl.entries[key]
	if !ok {
		rl.entries[key] = &windowEntry{count: 1, windowStart: now}
		return true
	}
	if entry.count >= limit {
		return false
	}
	entry.count++
	return true
}

// RateLimit guards a route with a shared limiter keyed by client IP.
// Rejections are delivered in the response envelope, HTTP status stays 200.
func RateLimit(limiter *RateLimiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.CheckAndUpdate(ip, limit) {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("limit", limit),
			)
			response.Fail(c, apperrors.ErrFrequencyLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
