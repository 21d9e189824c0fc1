package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

var ErrLockTimeout = errors.New("lock: timeout acquiring key")

// Redis coordena várias instâncias da API com SET NX PX.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Redis{
		client: client,
		prefix: "agenda:lock:",
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		wait:   ttl,
	}
}

func (r *Redis) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = sortKeys(keys)
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	acquired := make([]string, 0, len(keys))
	releaseAll := func() {
		// release não deve depender do contexto da requisição
		bg, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		for i := len(acquired) - 1; i >= 0; i-- {
			_ = releaseScript.Run(bg, r.client, []string{acquired[i]}, token).Err()
		}
	}

	for _, k := range keys {
		full := r.prefix + k
		if err := r.acquire(ctx, full, token); err != nil {
			releaseAll()
			return nil, err
		}
		acquired = append(acquired, full)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

func (r *Redis) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ErrLockTimeout
			}
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ErrLockTimeout
		case <-ticker.C:
		}
	}
}
