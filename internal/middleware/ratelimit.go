package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"slice-url/internal/models"
)

const (
	cleanupInterval = 5 * time.Minute
	visitorIdleTTL  = 10 * time.Minute
)

// RateLimiter holds rate limiters for different IPs
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit // tokens per second
	burst    int        // maximum burst size
	window   time.Duration
	message  string
	logger   *slog.Logger
	stop     chan struct{}
	once     sync.Once
}

// visitor holds a rate limiter for a specific IP
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window for each client IP.
// Rejected requests get a 429 with message.
func NewRateLimiter(limit int, window time.Duration, message string, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Every(window / time.Duration(limit)),
		burst:    limit,
		window:   window,
		message:  message,
		logger:   logger,
		stop:     make(chan struct{}),
	}

	// Clean up old visitors every 5 minutes
	go rl.cleanupVisitors()

	return rl
}

// getVisitor returns the rate limiter for a specific IP, creating one if needed
func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	// Update last seen time
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes idle visitors until Stop is called
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > visitorIdleTTL {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// info reports the limit; clients are told to wait a full window
func (rl *RateLimiter) info() models.RateLimitInfo {
	seconds := int(math.Ceil(rl.window.Seconds()))
	return models.RateLimitInfo{
		Window:      seconds,
		MaxRequests: rl.burst,
		RetryAfter:  seconds,
	}
}

// LimitMiddleware returns a Gin middleware that rate limits requests
func (rl *RateLimiter) LimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !rl.getVisitor(ip).Allow() {
			rl.logger.WarnContext(c.Request.Context(), "rate limit exceeded",
				"ip", ip,
				"path", c.FullPath(),
			)
			info := rl.info()
			c.Header("Retry-After", strconv.Itoa(info.RetryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				models.TooManyRequests(http.StatusTooManyRequests, rl.message, info))
			return
		}

		c.Next()
	}
}
