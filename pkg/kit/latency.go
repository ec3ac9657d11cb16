package kit

import (
	"context"
	"time"
)

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// ScaledSleep multiplies every wait by scale. A scale of zero or less disables waiting.
func ScaledSleep(scale float64) Sleeper {
	if scale <= 0 {
		return NoSleep
	}
	if scale == 1 {
		return ContextSleep
	}
	return func(ctx context.Context, d time.Duration) error {
		return ContextSleep(ctx, time.Duration(float64(d)*scale))
	}
}
