// ratelimit.go implements a per-IP rate limiter backed by Redis, using a
// fixed-window counter (INCR + EXPIRE). Redis keeps the counters shared
// across replicas and survives restarts, unlike an in-process map.
// Applied to the upload endpoint and the login endpoint.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns middleware that limits requests per IP to maxRequests
// within the given window duration. Returns 429 when exceeded. The name
// scopes the counter so different endpoints get independent budgets.
//
// Fails open: if Redis is unreachable the request is allowed through, since
// dropping uploads over a cache outage is worse than briefly losing the limit.
func RateLimit(rdb *redis.Client, name string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", name, c.RealIP())

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("name", name),
					slog.Any("error", err),
				)
				return next(c)
			}

			// First hit in the window starts the expiry clock.
			if count == 1 {
				if err := rdb.Expire(ctx, key, window).Err(); err != nil {
					slog.Warn("setting rate limit expiry failed",
						slog.String("name", name),
						slog.Any("error", err),
					)
				}
			}

			if count > int64(maxRequests) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "Too Many Requests",
					"message": "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
