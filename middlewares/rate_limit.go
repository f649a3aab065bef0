package middlewares

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client for the assistant
// endpoints, which fan out to an external model.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex

	limit rate.Limit
	burst int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Middleware rejects requests over the per-client budget with 429.
// Authenticated callers are keyed by user id, anonymous ones by IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := UserID(c); ok {
			key = "user:" + strconv.Itoa(id)
		}

		if !rl.getLimiter(key).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Слишком много запросов, попробуйте позже"})
			c.Abort()
			return
		}
		c.Next()
	}
}
