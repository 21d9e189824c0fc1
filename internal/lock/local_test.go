package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocal_SerializesSameKey(t *testing.T) {
	l := NewLocal()

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(context.Background(), DayKey("2024-01-10"))
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxSeen)
	}
	if len(l.slots) != 0 {
		t.Fatalf("expected slots to be cleaned up, got %d", len(l.slots))
	}
}

func TestLocal_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocal()

	release, err := l.Lock(context.Background(), DayKey("2024-01-10"))
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	other, err := l.Lock(ctx, DayKey("2024-01-11"), AppointmentKey(7))
	if err != nil {
		t.Fatalf("independent keys should not block: %v", err)
	}
	other()
}

func TestLocal_ContextTimeoutReleasesPartial(t *testing.T) {
	l := NewLocal()

	hold, err := l.Lock(context.Background(), "b")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := l.Lock(ctx, "a", "b"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// "a" deve ter sido liberada
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	relA, err := l.Lock(ctx2, "a")
	if err != nil {
		t.Fatalf("expected key a to be free: %v", err)
	}
	relA()
	hold()
}

func TestKeys(t *testing.T) {
	if AppointmentKey(42) != "appointment:42" {
		t.Fatalf("unexpected key %q", AppointmentKey(42))
	}
	if got := sortKeys([]string{"slot:b", "appointment:1", "slot:b"}); len(got) != 2 || got[0] != "appointment:1" {
		t.Fatalf("unexpected order %v", got)
	}
}
