package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type rateLimiter struct {
	limiters sync.Map // client ip -> *rate.Limiter
	rps      float64
	burst    int
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// RateLimit throttles per client IP. A non-positive rps disables it.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 5
	}

	l := &rateLimiter{rps: rps, burst: burst}

	return func(c *gin.Context) {
		if !l.getLimiter(c.ClientIP()).Allow() {
			httperr.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
