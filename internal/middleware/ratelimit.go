package middleware

import (
	"sync"
	"time"

	"betting-service/config"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimiter throttles the whole API and each client IP separately. Every
// read fans out into many RPC calls, so the limits guard the node as much as
// the service.
type RateLimiter struct {
	config config.RateLimitConfig

	globalLimiter *rate.Limiter

	// client ip -> *rate.Limiter
	clientLimiters sync.Map
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 600
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 60
	}
	return &RateLimiter{
		config: cfg,
		globalLimiter: rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute*10)),
			cfg.Burst*10,
		),
	}
}

func (rl *RateLimiter) clientLimiter(ip string) *rate.Limiter {
	limiter, _ := rl.clientLimiters.LoadOrStore(ip, rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(rl.config.RequestsPerMinute)),
		rl.config.Burst,
	))
	return limiter.(*rate.Limiter)
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.globalLimiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Global rate limit exceeded",
			})
		}

		if !rl.clientLimiter(c.IP()).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded",
			})
		}

		return c.Next()
	}
}
