package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newRedisLocker(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, ttl), mr
}

func TestRedis_SerializesSameKey(t *testing.T) {
	l, mr := newRedisLocker(t, 5*time.Second)
	ctx := context.Background()
	key := DayKey("2024-01-10")

	release, err := l.Lock(ctx, key)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	got := make(chan error, 1)
	go func() {
		second, err := l.Lock(ctx, key)
		if err == nil {
			second()
		}
		got <- err
	}()

	select {
	case err := <-got:
		t.Fatalf("second holder got the key while the first held it (err=%v)", err)
	case <-time.After(100 * time.Millisecond):
	}

	release()

	select {
	case err := <-got:
		if err != nil {
			t.Fatalf("second holder: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("second holder never acquired the key")
	}

	if mr.Exists(l.prefix + key) {
		t.Fatalf("expected key released")
	}
}

func TestRedis_StaleTokenCannotRelease(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)
	ctx := context.Background()
	full := l.prefix + DayKey("2024-01-10")

	first, err := l.Lock(ctx, DayKey("2024-01-10"))
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	// expira o primeiro holder
	mr.FastForward(2 * time.Second)

	second, err := l.Lock(ctx, DayKey("2024-01-10"))
	if err != nil {
		t.Fatalf("lock after expiry: %v", err)
	}
	token, err := mr.Get(full)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	first()

	if now, _ := mr.Get(full); now != token {
		t.Fatalf("stale release removed the current holder (%q -> %q)", token, now)
	}

	second()
	if mr.Exists(full) {
		t.Fatalf("expected key released by its owner")
	}
}

func TestRedis_TimeoutRollsBackPartialAcquisition(t *testing.T) {
	l, mr := newRedisLocker(t, 5*time.Second)
	l.wait = 100 * time.Millisecond
	l.retry = 10 * time.Millisecond

	if err := mr.Set(l.prefix+"b", "other-instance"); err != nil {
		t.Fatalf("set: %v", err)
	}

	_, err := l.Lock(context.Background(), "b", "a")
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}

	if mr.Exists(l.prefix + "a") {
		t.Fatalf("expected key a rolled back")
	}
	if v, _ := mr.Get(l.prefix + "b"); v != "other-instance" {
		t.Fatalf("foreign key b must be untouched, got %q", v)
	}
}

func TestRedis_LockExpiresAfterTTL(t *testing.T) {
	l, mr := newRedisLocker(t, 2*time.Second)
	l.wait = 100 * time.Millisecond
	key := AppointmentKey(9)

	if _, err := l.Lock(context.Background(), key); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if ttl := mr.TTL(l.prefix + key); ttl <= 0 || ttl > 2*time.Second {
		t.Fatalf("expected ttl up to 2s, got %s", ttl)
	}

	if _, err := l.Lock(context.Background(), key); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected held key to time out, got %v", err)
	}

	mr.FastForward(3 * time.Second)

	release, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("expected expired key to be free: %v", err)
	}
	release()
}
