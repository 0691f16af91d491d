package playback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/kinesis/internal/humanoid"
)

// Runner paces trajectories and keystroke plans onto an Executor. It checks
// the context between every element so a cancelled run stops at the next
// waypoint or key, and it never retries a failed executor call.
type Runner struct {
	logger   *zap.Logger
	executor Executor
	limiter  *rate.Limiter
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxEventsPerSecond bounds how fast input events reach the executor.
// Zero or negative means unbounded.
func WithMaxEventsPerSecond(limit float64, burst int) Option {
	return func(r *Runner) {
		if limit <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// NewRunner creates a Runner for the given executor.
func NewRunner(executor Executor, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		logger:   logger.Named("playback"),
		executor: executor,
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Move replays a trajectory as relative integer moves spread evenly over
// duration. Hops that round to zero still take their time slice but send
// no event.
func (r *Runner) Move(ctx context.Context, traj humanoid.Trajectory, duration time.Duration) error {
	steps := humanoid.AccumulateDeltas(traj)
	if len(steps) == 0 {
		return nil
	}
	interval := duration / time.Duration(len(steps))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("playback: move cancelled at step %d of %d: %w", i, len(steps), err)
		}
		if step.DX != 0 || step.DY != 0 {
			if err := r.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("playback: rate limiter: %w", err)
			}
			if err := r.executor.MoveBy(ctx, step.DX, step.DY); err != nil {
				return fmt.Errorf("playback: move step %d: %w", i, err)
			}
		}
		if interval > 0 {
			if err := r.executor.Sleep(ctx, interval); err != nil {
				return fmt.Errorf("playback: move step %d: %w", i, err)
			}
		}
	}

	r.logger.Debug("Trajectory replayed.",
		zap.Int("steps", len(steps)),
		zap.Duration("duration", duration))
	return nil
}

// Type replays a typing plan: wait the keystroke's delay, press, hold.
func (r *Runner) Type(ctx context.Context, plan *humanoid.TypingPlan) error {
	if plan == nil {
		return nil
	}
	for i, k := range plan.Keystrokes {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("playback: typing cancelled at keystroke %d of %d: %w", i, len(plan.Keystrokes), err)
		}
		if err := r.executor.Sleep(ctx, k.Delay); err != nil {
			return fmt.Errorf("playback: keystroke %d: %w", i, err)
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("playback: rate limiter: %w", err)
		}

		var err error
		if k.Action == humanoid.KeyPaste {
			err = r.executor.Paste(ctx, k.Text)
		} else {
			err = r.executor.SendKeys(ctx, k.Keys())
		}
		if err != nil {
			return fmt.Errorf("playback: keystroke %d (%s): %w", i, k.Action, err)
		}

		if err := r.executor.Sleep(ctx, k.Hold); err != nil {
			return fmt.Errorf("playback: keystroke %d: %w", i, err)
		}
	}

	r.logger.Debug("Typing plan replayed.",
		zap.String("session_id", plan.SessionID.String()),
		zap.Int("keystrokes", len(plan.Keystrokes)))
	return nil
}
