package game

import (
	"time"

	"voxelmesh/internal/config"
)

// spinWindow is how close to the deadline the limiter stops sleeping and polls.
const spinWindow = 200 * time.Microsecond

// FPSLimiter provides high-precision frame rate limiting
type FPSLimiter struct {
	next  time.Time
	limit func() int
	now   func() time.Time
	sleep func(time.Duration)
}

// NewFPSLimiter creates a limiter that follows config.GetFPSLimit.
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{
		limit: config.GetFPSLimit,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Wait blocks until the next frame should start and reports whether a limit
// is in effect. Uses a hybrid sleep/spin approach for better precision on
// high FPS caps.
func (f *FPSLimiter) Wait() bool {
	limit := f.limit()
	if limit <= 0 {
		f.next = time.Time{}
		return false
	}

	target := time.Second / time.Duration(limit)

	if f.next.IsZero() {
		f.next = f.now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := f.next.Sub(f.now())
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			f.sleep(remaining - spinWindow)
		}
	}

	// If we're significantly late (e.g., hitch), resync to avoid drift
	if late := f.now().Sub(f.next); late > target {
		f.next = f.now().Add(target)
	}
	return true
}
