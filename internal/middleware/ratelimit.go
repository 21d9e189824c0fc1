package middleware

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
)

// Counter conta hits numa janela fixa e devolve o total e o tempo até o reset.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

var hitScript = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return { n, redis.call('PTTL', KEYS[1]) }
`)

type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	vals, err := hitScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, redis.Nil
	}
	return vals[0], time.Duration(vals[1]) * time.Millisecond, nil
}

// RateLimit falha aberto: erro no contador deixa a requisição passar.
func RateLimit(cfg config.RateLimitConfig, counter Counter) gin.HandlerFunc {
	if !cfg.Enabled || counter == nil || cfg.Requests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := rateKey(cfg.Prefix, c)

		n, ttl, err := counter.Hit(c.Request.Context(), key, cfg.Window)
		if err != nil {
			log.Printf("ratelimit: counter error for %s: %v", key, err)
			c.Next()
			return
		}

		remaining := int64(cfg.Requests) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(cfg.Requests) {
			secs := int(math.Ceil(ttl.Seconds()))
			if secs < 0 {
				secs = 0
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code":  "too_many_requests",
				"message":     "Demasiadas solicitudes. Intenta nuevamente en unos segundos.",
				"retry_after": secs,
			})
			return
		}

		c.Next()
	}
}

func rateKey(prefix string, c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{prefix, "ip", ip, c.Request.Method + " " + c.FullPath()}, ":")
}
