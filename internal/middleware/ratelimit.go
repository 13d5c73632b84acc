package middleware

import (
	"context"
	"net/http"
	"time"

	"trznica/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimiter is the counter backing RateLimit, satisfied by
// caching.CacheService.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit rejects clients that exceed limit requests per window on a
// route, keyed by client IP. Used on the credential endpoints to slow
// down brute-force attempts.
func RateLimit(limiter RateLimiter, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Path() + ":" + c.RealIP()
			limited, err := limiter.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				// A cache outage must not lock everyone out.
				return next(c)
			}
			if limited {
				return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", "Prevec zahtev, poskusite pozneje", nil))
			}
			return next(c)
		}
	}
}
