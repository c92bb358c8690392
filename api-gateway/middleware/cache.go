package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tair/commodity-tracker/pkg/logger"
)

// CacheKeyPrefix namespaces gateway response cache entries in Redis
const CacheKeyPrefix = "gateway:cache:"

// CacheConfig holds cache configuration
type CacheConfig struct {
	TTL time.Duration
	// Paths lists the cacheable GET path prefixes
	Paths []string
}

// DefaultCacheConfig caches the dashboard read endpoints
func DefaultCacheConfig(ttl time.Duration) CacheConfig {
	return CacheConfig{
		TTL: ttl,
		Paths: []string{
			"/api/commodities",
			"/api/movements",
			"/api/alerts",
			"/api/dashboard",
		},
	}
}

// CacheMiddleware serves repeated dashboard reads from Redis. Entries are
// keyed per caller token so role-dependent answers never leak.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet || !hasPrefix(c.Path(), config.Paths) {
			return c.Next()
		}

		ctx := c.UserContext()
		cacheKey := generateCacheKey(c)

		cached, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cached) > 0 {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		}

		err = c.Next()

		if c.Response().StatusCode() == fiber.StatusOK {
			body := c.Response().Body()
			if setErr := redisClient.Set(ctx, cacheKey, body, config.TTL).Err(); setErr != nil {
				logger.WithContext(ctx).Warn().
					Err(setErr).
					Str("path", c.Path()).
					Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// InvalidateOnMutation drops every cached response after a successful write,
// since one movement changes stock, status, alerts and stats at once
func InvalidateOnMutation(redisClient *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return err
		}
		if status := c.Response().StatusCode(); status < 200 || status >= 300 {
			return err
		}

		if invErr := InvalidateCache(c.UserContext(), redisClient, CacheKeyPrefix+"*"); invErr != nil {
			logger.WithContext(c.UserContext()).Warn().Err(invErr).Msg("Cache invalidation failed")
		}
		return err
	}
}

// generateCacheKey generates a unique cache key for the request
func generateCacheKey(c *fiber.Ctx) string {
	parts := strings.Join([]string{
		c.Path(),
		string(c.Request().URI().QueryString()),
		c.Get(fiber.HeaderAuthorization),
	}, "|")

	hash := sha256.Sum256([]byte(parts))
	return CacheKeyPrefix + hex.EncodeToString(hash[:])
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// InvalidateCache deletes the keys matching pattern
func InvalidateCache(ctx context.Context, redisClient *redis.Client, pattern string) error {
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		logger.WithContext(ctx).Debug().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}
	return nil
}
