// Package lock serializa o check-and-write da agenda por chave.
package lock

import (
	"context"
	"sort"
	"strconv"
)

type Locker interface {
	// Lock adquire todas as chaves ou nenhuma. release é sempre não-nil
	// quando err == nil.
	Lock(ctx context.Context, keys ...string) (release func(), err error)
}

func DayKey(day string) string {
	return "slot:" + day
}

func AppointmentKey(id uint) string {
	return "appointment:" + strconv.FormatUint(uint64(id), 10)
}

// sortKeys ordena e remove duplicadas; ordem global evita deadlock.
func sortKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
