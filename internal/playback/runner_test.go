// FILE: ./internal/playback/runner_test.go
package playback

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/kinesis/internal/humanoid"
)

// cancellingExecutor wraps a Recorder and cancels the run after a number of
// moves or keys. It communicates only through the cancel func and an atomic
// counter.
type cancellingExecutor struct {
	*Recorder
	after  int32
	calls  atomic.Int32
	cancel context.CancelFunc
}

func (c *cancellingExecutor) tick() {
	if c.calls.Add(1) == c.after {
		c.cancel()
	}
}

func (c *cancellingExecutor) MoveBy(ctx context.Context, dx, dy int) error {
	c.tick()
	return c.Recorder.MoveBy(ctx, dx, dy)
}

func (c *cancellingExecutor) SendKeys(ctx context.Context, keys string) error {
	c.tick()
	return c.Recorder.SendKeys(ctx, keys)
}

type failingExecutor struct {
	*Recorder
	err error
}

func (f *failingExecutor) MoveBy(ctx context.Context, dx, dy int) error { return f.err }

func (f *failingExecutor) SendKeys(ctx context.Context, keys string) error { return f.err }

func TestRunner_MoveReachesDestination(t *testing.T) {
	h := humanoid.NewTestHumanoid(7)
	origin, dst := humanoid.Point{X: 10.4, Y: 20.6}, humanoid.Point{X: 733.7, Y: 402.2}
	traj, err := h.GenerateTrajectory(origin, dst, humanoid.ModeNatural)
	require.NoError(t, err)

	rec := NewRecorder(false)
	runner := NewRunner(rec, zap.NewNop())
	require.NoError(t, runner.Move(context.Background(), traj, 500*time.Millisecond))

	x, y := rec.Position()
	assert.Equal(t, int(math.Round(dst.X-origin.X)), x)
	assert.Equal(t, int(math.Round(dst.Y-origin.Y)), y)

	for _, e := range rec.Events() {
		if e.Kind == EventMove {
			assert.False(t, e.DX == 0 && e.DY == 0, "zero moves are not sent")
		}
	}
	assert.InDelta(t, float64(500*time.Millisecond), float64(rec.Elapsed()), float64(time.Millisecond))
}

func TestRunner_MoveDegenerate(t *testing.T) {
	traj, err := humanoid.NewTrajectory([]humanoid.Point{{X: 5, Y: 5}})
	require.NoError(t, err)
	rec := NewRecorder(false)
	require.NoError(t, NewRunner(rec, nil).Move(context.Background(), traj, time.Second))
	assert.Empty(t, rec.Events())
}

func TestRunner_MoveCancellation(t *testing.T) {
	pts := make([]humanoid.Point, 21)
	for i := range pts {
		pts[i] = humanoid.Point{X: float64(i * 10)}
	}
	traj, err := humanoid.NewTrajectory(pts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exec := &cancellingExecutor{Recorder: NewRecorder(false), after: 3, cancel: cancel}

	err = NewRunner(exec, zap.NewNop()).Move(ctx, traj, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	x, _ := exec.Position()
	assert.Equal(t, 30, x, "no moves after cancellation")
}

func TestRunner_TypeReplaysPlan(t *testing.T) {
	h := humanoid.NewTestHumanoid(3)
	text := "Mistakes get fixed. Mail bob@example.com today!"
	plan, err := h.PlanTyping(text, 90, 0.3, 0)
	require.NoError(t, err)

	rec := NewRecorder(false)
	require.NoError(t, NewRunner(rec, zap.NewNop()).Type(context.Background(), plan))

	assert.Equal(t, text, rec.Typed())
	assert.Equal(t, plan.Duration(), rec.Elapsed())

	pastes := 0
	for _, e := range rec.Events() {
		if e.Kind == EventPaste {
			pastes++
			assert.Equal(t, "bob@example.com", e.Text)
		}
	}
	assert.Equal(t, 1, pastes)
}

func TestRunner_TypeCancellation(t *testing.T) {
	h := humanoid.NewTestHumanoid(3)
	plan, err := h.PlanTyping("cancel me halfway", 60, 0, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exec := &cancellingExecutor{Recorder: NewRecorder(false), after: 5, cancel: cancel}

	err = NewRunner(exec, nil).Type(ctx, plan)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "cance", exec.Typed())
}

func TestRunner_ExecutorErrorsAreWrapped(t *testing.T) {
	boom := errors.New("device unplugged")
	exec := &failingExecutor{Recorder: NewRecorder(false), err: boom}
	runner := NewRunner(exec, zap.NewNop())

	traj, err := humanoid.NewTrajectory([]humanoid.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	require.NoError(t, err)
	err = runner.Move(context.Background(), traj, 0)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "playback: move step 0")

	plan, err := humanoid.NewTestHumanoid(1).PlanTyping("x", 60, 0, 0)
	require.NoError(t, err)
	err = runner.Type(context.Background(), plan)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "keystroke 0 (char)")
}

func TestRunner_RateLimit(t *testing.T) {
	pts := []humanoid.Point{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	traj, err := humanoid.NewTrajectory(pts)
	require.NoError(t, err)

	rec := NewRecorder(false)
	runner := NewRunner(rec, nil, WithMaxEventsPerSecond(50, 1))

	start := time.Now()
	require.NoError(t, runner.Move(context.Background(), traj, 0))
	// Three events at 50/s with a burst of one need at least two intervals.
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewRunner(rec, nil, WithMaxEventsPerSecond(0, 0)).Move(ctx, traj, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecorder_RealtimeSleepHonorsContext(t *testing.T) {
	rec := NewRecorder(true)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := rec.Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	require.NoError(t, rec.Sleep(context.Background(), time.Millisecond))
	assert.Len(t, rec.Events(), 2)
}
