package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"serenity/internal/adapter/http/helper"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
	now     func() time.Time
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter builds a fixed window limiter. Lookups try "METHOD path",
// then the path, then "default".
func NewRateLimiter(configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	c := cache.New(5*time.Minute, 10*time.Minute)

	limits := make(map[string]config.RateLimitConfig, len(configs)+1)
	for key, value := range configs {
		limits[key] = value
	}

	if _, ok := limits["default"]; !ok {
		limits["default"] = config.RateLimitConfig{Requests: 60, Window: time.Minute}
	}

	return &RateLimiter{
		cache:   c,
		config:  limits,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		limit := rl.lookup(methodPath, path)

		identifier, keyType := rl.identify(c)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, identifier)

		allowed, remaining, resetTime := rl.checkRateLimit(key, limit)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window))

			helper.SendTooManyRequestsError(c,
				fmt.Sprintf("Too many requests. Limit: %d per %v", limit.Requests, limit.Window),
				int(resetTime.Sub(rl.now()).Seconds()))
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) lookup(methodPath, path string) config.RateLimitConfig {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if limit, ok := rl.config[methodPath]; ok {
		return limit
	}

	if limit, ok := rl.config[path]; ok {
		return limit
	}

	return rl.config["default"]
}

func (rl *RateLimiter) checkRateLimit(key string, limit config.RateLimitConfig) (bool, int, time.Time) {
	now := rl.now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if now.Before(rateLimitEntry.ResetTime) {
			if rateLimitEntry.Count >= limit.Requests {
				return false, 0, rateLimitEntry.ResetTime
			}

			rateLimitEntry.Count++
			rl.cache.Set(key, rateLimitEntry, rateLimitEntry.ResetTime.Sub(now))

			return true, limit.Requests - rateLimitEntry.Count, rateLimitEntry.ResetTime
		}
	}

	resetTime := now.Add(limit.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, limit.Window)

	return true, limit.Requests - 1, resetTime
}

func (rl *RateLimiter) identify(c *gin.Context) (string, string) {
	if userID := c.GetString(UserIDKey); userID != "" {
		return "user_" + userID, "user"
	}

	return ClientIP(c), "ip"
}

func (rl *RateLimiter) SetConfig(path string, limit config.RateLimitConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.config[strings.TrimSpace(path)] = limit
}

func (rl *RateLimiter) GetStats() map[string]any {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	return map[string]any{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}
