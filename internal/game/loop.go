package game

import (
	"context"
	"log/slog"
	"time"

	"voxelmesh/internal/profiling"
)

// Step is the fixed simulation step, 60 updates per second.
const Step = 16666667 * time.Nanosecond

// Action tells the loop whether to keep going after a frame.
type Action int

const (
	Continue Action = iota
	Stop
)

// FrameFunc draws one frame. dt is the wall time since the previous frame.
type FrameFunc func(dt time.Duration) Action

// UpdateFunc advances the simulation by one fixed step.
type UpdateFunc func(step time.Duration)

// Loop runs frames as fast as the fixed step allows and catches the
// simulation up in whole steps. Leftover time is carried in an accumulator
// and the loop sleeps until the next step is due.
type Loop struct {
	frame   FrameFunc
	update  UpdateFunc
	limiter *FPSLimiter
	log     *slog.Logger

	now   func() time.Time
	sleep func(time.Duration)

	frames  uint64
	updates uint64
}

// NewLoop creates a loop around frame and update. update may be nil.
func NewLoop(frame FrameFunc, update UpdateFunc, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		frame:   frame,
		update:  update,
		limiter: NewFPSLimiter(),
		log:     log,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Run loops until the frame callback returns Stop or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	var accumulator time.Duration
	previous := l.now()
	lastFrame := previous

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		profiling.ResetFrame()
		start := l.now()
		action := l.frame(start.Sub(lastFrame))
		lastFrame = start
		l.frames++

		if took := l.now().Sub(start); took > Step {
			l.log.Warn("Slow frame", "took", took, "top", profiling.TopN(5))
		}
		if action == Stop {
			return nil
		}

		now := l.now()
		accumulator += now.Sub(previous)
		previous = now

		for accumulator >= Step {
			accumulator -= Step
			if l.update != nil {
				l.update(Step)
			}
			l.updates++
		}

		if !l.limiter.Wait() {
			l.sleep(Step - accumulator)
		}
	}
}

// Frames returns the number of frames drawn.
func (l *Loop) Frames() uint64 { return l.frames }

// Updates returns the number of fixed steps taken.
func (l *Loop) Updates() uint64 { return l.updates }
