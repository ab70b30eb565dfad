package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// Pinger is satisfied by connection pools and clients that expose a Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger into a readiness CheckFunc.
func PingCheck(p Pinger) CheckFunc {
	return p.Ping
}

// GoroutineCountCheck fails once the goroutine count passes max. Useful as
// a liveness probe for goroutine leaks.
func GoroutineCountCheck(max int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > max {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, max)
		}
		return nil
	}
}

// GCMaxPauseCheck fails when any recorded GC pause exceeded max, indicating
// memory pressure or an oversized heap.
func GCMaxPauseCheck(max time.Duration) CheckFunc {
	return func(context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)
		for _, pause := range stats.Pause {
			if pause > max {
				return errors.Errorf("GC pause %s exceeds threshold %s", pause, max)
			}
		}
		return nil
	}
}
