package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/server"
)

// RateLimitMiddleware enforces fixed-window request budgets, keyed by
// client IP, with counters in Redis so the budget holds across replicas.
type RateLimitMiddleware struct {
	server *server.Server
}

// NewRateLimitMiddleware constructs a RateLimitMiddleware.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit allows at most limit requests per window per client IP on the
// named endpoint. Redis being unreachable fails open: the limiter logs
// and lets the request through rather than taking the endpoint down.
func (r *RateLimitMiddleware) Limit(endpoint string, limit int64, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", endpoint, c.RealIP())

			count, err := r.server.Redis.Incr(ctx, key).Result()
			if err != nil {
				GetLogger(c).Error().Err(err).Str("endpoint", endpoint).Msg("Rate limiter unavailable, allowing request")
				return next(c)
			}
			if count == 1 {
				if err := r.server.Redis.Expire(ctx, key, window).Err(); err != nil {
					GetLogger(c).Error().Err(err).Str("endpoint", endpoint).Msg("Failed to set rate limit window")
				}
			}

			if count > limit {
				r.RecordRateLimitHit(endpoint)
				return errs.NewTooManyRequestsError("Too many requests, please try again later.")
			}

			return next(c)
		}
	}
}

// RecordRateLimitHit records a New Relic custom event for a rejected
// request, when New Relic is configured.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
