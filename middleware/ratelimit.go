package middleware

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultRate       = 2.0 // tokens per second
	defaultBucketSize = 5.0
	staleAfter        = 10 * time.Minute
	sweepInterval     = time.Minute
)

// RateLimiter applies a per-IP token bucket.
type RateLimiter struct {
	tokens     map[string]float64
	lastRefill map[string]time.Time
	mu         sync.Mutex
	rate       float64
	bucketSize float64
	lastSweep  time.Time
}

func NewRateLimiter(rate, bucketSize float64) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string]float64),
		lastRefill: make(map[string]time.Time),
		rate:       rate,
		bucketSize: bucketSize,
		lastSweep:  time.Now(),
	}
}

// NewRateLimiterFromEnv reads RATE_LIMIT_RPS and RATE_LIMIT_BURST, falling
// back to the defaults when unset or unparsable.
func NewRateLimiterFromEnv() *RateLimiter {
	rate := defaultRate
	if v, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64); err == nil && v > 0 {
		rate = v
	}
	bucket := defaultBucketSize
	if v, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_BURST"), 64); err == nil && v > 0 {
		bucket = v
	}
	return NewRateLimiter(rate, bucket)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()

		rl.sweepStale(now)

		if _, exists := rl.lastRefill[ip]; !exists {
			rl.tokens[ip] = rl.bucketSize
			rl.lastRefill[ip] = now
		}

		elapsed := now.Sub(rl.lastRefill[ip])
		rl.tokens[ip] = min(rl.bucketSize, rl.tokens[ip]+elapsed.Seconds()*rl.rate)
		rl.lastRefill[ip] = now

		if rl.tokens[ip] < 1 {
			rl.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		rl.tokens[ip]--
		rl.mu.Unlock()

		c.Next()
	}
}

// sweepStale drops buckets of IPs idle long enough to have refilled anyway.
// Caller must hold rl.mu.
func (rl *RateLimiter) sweepStale(now time.Time) {
	if now.Sub(rl.lastSweep) < sweepInterval {
		return
	}
	for ip, last := range rl.lastRefill {
		if now.Sub(last) > staleAfter {
			delete(rl.lastRefill, ip)
			delete(rl.tokens, ip)
		}
	}
	rl.lastSweep = now
}
