package middleware

import (
	"asset-service/internal/auth"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	defaultGlobalRate  = 100
	defaultGlobalBurst = 200
	defaultOwnerRate   = 20
	defaultOwnerBurst  = 40

	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"

	msgRateLimitExceeded = "rate limit exceeded"
)

// RateLimiter implements token bucket rate limiting per identity
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// NewGlobalRateLimiter returns a limiter suitable as a service-wide default
func NewGlobalRateLimiter() *RateLimiter {
	return NewRateLimiter(defaultGlobalRate, defaultGlobalBurst)
}

// NewOwnerRateLimiter returns a limiter for authenticated routes. It
// must run after RequireJWT so the owner identity is in the context;
// registered earlier it would only ever see the client IP.
func NewOwnerRateLimiter() *RateLimiter {
	return NewRateLimiter(defaultOwnerRate, defaultOwnerBurst)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	// LoadOrStore keeps concurrent first requests on a single bucket.
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an Echo middleware function for rate limiting.
// Authenticated requests are limited per owner identity, everything
// else per client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var key string
			if ownerID, err := auth.GetOwnerID(c); err == nil {
				key = "owner:" + ownerID
			} else {
				key = "ip:" + c.RealIP()
			}

			limiter := rl.getLimiter(key)

			if !limiter.Allow() {
				c.Response().Header().Set(headerRateLimitLimit, fmt.Sprintf("%d", rl.burst))
				c.Response().Header().Set(headerRateLimitRemaining, "0")
				c.Response().Header().Set(headerRetryAfter, "1")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": msgRateLimitExceeded,
				})
			}

			c.Response().Header().Set(headerRateLimitLimit, fmt.Sprintf("%d", rl.burst))
			c.Response().Header().Set(headerRateLimitRemaining, fmt.Sprintf("%d", int(limiter.Tokens())))

			return next(c)
		}
	}
}
