package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// redisCounter is the slice of the redis service this package needs,
// kept as a local interface to avoid importing the services package.
type redisCounter interface {
	Enabled() bool
	GetClient() *redis.Client
}

// RateLimitMiddleware applies fixed-window limits per client. Counters live
// in redis when it is configured, otherwise in process memory.
type RateLimitMiddleware struct {
	appContext.DefaultService

	redisSvc redisCounter

	configs map[string]rateLimitConfig

	mutex   sync.Mutex
	windows map[string]*localWindow
}

type rateLimitConfig struct {
	MaxRequests int
	WindowSize  time.Duration
}

type localWindow struct {
	count     int
	expiresAt time.Time
}

const RATE_LIMIT_MIDDLEWARE_SVC = "rate_limit"

const redisServiceID = "redis_svc"

func (svc *RateLimitMiddleware) Id() string {
	return RATE_LIMIT_MIDDLEWARE_SVC
}

func (svc *RateLimitMiddleware) Configure(ctx *appContext.Context) error {
	svc.redisSvc = ctx.Service(redisServiceID).(redisCounter)

	svc.windows = make(map[string]*localWindow)
	svc.configs = map[string]rateLimitConfig{
		// Credential endpoints are the brute-force target.
		"auth": {
			MaxRequests: 10,
			WindowSize:  time.Minute * 15,
		},

		// Point-earning endpoint; a human cannot legitimately finish
		// lessons faster than this.
		"lesson_complete": {
			MaxRequests: 30,
			WindowSize:  time.Hour,
		},

		"api_general": {
			MaxRequests: 1000,
			WindowSize:  time.Hour,
		},
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitMiddleware) Start() error {
	go svc.cleanupLocalWindows()
	return nil
}

// Limit returns a handler enforcing the named limit against the client IP.
func (svc *RateLimitMiddleware) Limit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		config, exists := svc.configs[endpointType]
		if !exists {
			return c.Next()
		}

		identifier := clientIP(c)
		allowed, remaining, resetAt, err := svc.isAllowed(identifier, endpointType, config)
		if err != nil {
			log.WithError(err).WithField("endpoint_type", endpointType).Warn("Rate limit check failed")
			return c.Next()
		}

		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			c.Set("Retry-After", strconv.FormatInt(int64(time.Until(resetAt).Seconds()), 10))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
			})
		}

		return c.Next()
	}
}

func (svc *RateLimitMiddleware) isAllowed(identifier, endpointType string, config rateLimitConfig) (bool, int, time.Time, error) {
	if svc.redisSvc.Enabled() {
		return svc.redisAllowed(identifier, endpointType, config)
	}
	return svc.localAllowed(identifier, endpointType, config), 0, time.Now().Add(config.WindowSize), nil
}

func (svc *RateLimitMiddleware) redisAllowed(identifier, endpointType string, config rateLimitConfig) (bool, int, time.Time, error) {
	window := time.Now().Unix() / int64(config.WindowSize.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", endpointType, identifier, window)

	client := svc.redisSvc.GetClient()
	rctx := context.Background()

	count, err := client.Incr(rctx, key).Result()
	if err != nil {
		return true, 0, time.Time{}, err
	}
	if count == 1 {
		client.Expire(rctx, key, config.WindowSize)
	}

	resetAt := time.Unix((window+1)*int64(config.WindowSize.Seconds()), 0)
	remaining := config.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= config.MaxRequests, remaining, resetAt, nil
}

func (svc *RateLimitMiddleware) localAllowed(identifier, endpointType string, config rateLimitConfig) bool {
	key := endpointType + ":" + identifier
	now := time.Now()

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	w, ok := svc.windows[key]
	if !ok || now.After(w.expiresAt) {
		svc.windows[key] = &localWindow{count: 1, expiresAt: now.Add(config.WindowSize)}
		return true
	}

	w.count++
	return w.count <= config.MaxRequests
}

func (svc *RateLimitMiddleware) cleanupLocalWindows() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		svc.mutex.Lock()
		for key, w := range svc.windows {
			if now.After(w.expiresAt) {
				delete(svc.windows, key)
			}
		}
		svc.mutex.Unlock()
	}
}

func clientIP(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.IP()
}
