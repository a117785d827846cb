package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(clock *fakeClock, limit int) *FPSLimiter {
	return &FPSLimiter{
		limit: func() int { return limit },
		now:   clock.now,
		sleep: clock.sleep,
	}
}

func TestFPSLimiterUncapped(t *testing.T) {
	clock := newFakeClock()
	f := newTestLimiter(clock, 0)
	assert.False(t, f.Wait())
	assert.Zero(t, clock.slept)
	assert.True(t, f.next.IsZero())
}

func TestFPSLimiterPaces(t *testing.T) {
	clock := newFakeClock()
	clock.tick = 10 * time.Microsecond
	f := newTestLimiter(clock, 50)

	start := clock.t
	for range 5 {
		assert.True(t, f.Wait())
	}
	elapsed := clock.t.Sub(start)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 101*time.Millisecond)
}

func TestFPSLimiterResyncsAfterHitch(t *testing.T) {
	clock := newFakeClock()
	clock.tick = 10 * time.Microsecond
	f := newTestLimiter(clock, 100)

	f.Wait()
	clock.t = clock.t.Add(time.Second)
	f.Wait()
	assert.True(t, f.next.After(clock.t), "deadline moves past the hitch")
	assert.LessOrEqual(t, f.next.Sub(clock.t), 10*time.Millisecond)
}
