package humanoid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementDuration_FittsLaw(t *testing.T) {
	h := NewTestHumanoid(6)
	near := h.MovementDuration(10)
	far := h.MovementDuration(2000)
	assert.Greater(t, far, near)
	assert.GreaterOrEqual(t, h.MovementDuration(0), 0*near)
	assert.GreaterOrEqual(t, h.MovementDuration(-50), 0*near)

	// Fatigue lengthens the intercept.
	cfg := h.Config()
	h.UpdateFatigue(10 * cfg.FatigueTimeConstant)
	tiredMin := (cfg.FittsA*(1+h.FatigueLevel()) + cfg.FittsB*0) * 0.85
	assert.GreaterOrEqual(t, float64(h.MovementDuration(0).Milliseconds()), tiredMin-1)
}

func TestMovementDuration_UsesSessionFatigue(t *testing.T) {
	h := NewTestHumanoid(6)
	start := h.Fatigue().SessionStart
	h.mu.Lock()
	h.now = func() time.Time { return start.Add(90 * time.Minute) }
	h.mu.Unlock()

	cfg := h.Config()
	d := h.MovementDuration(0)
	level := 1 - math.Exp(-2)
	assert.InDelta(t, level, h.FatigueLevel(), 1e-12)
	assert.GreaterOrEqual(t, float64(d)/float64(time.Millisecond), cfg.FittsA*(1+level)*0.85-1e-3)
}

func TestMovementDurationWithFatigue(t *testing.T) {
	h := NewTestHumanoid(6)
	cfg := h.Config()

	d, err := h.MovementDurationWithFatigue(0, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, float64(d)/float64(time.Millisecond), cfg.FittsA*2*0.85-1e-3)
	assert.LessOrEqual(t, float64(d)/float64(time.Millisecond), cfg.FittsA*2*1.15+1e-3)
	assert.Zero(t, h.FatigueLevel())

	for _, f := range []float64{-1, 1.01, math.NaN()} {
		_, err := h.MovementDurationWithFatigue(100, f)
		assert.ErrorIs(t, err, ErrConfiguration, "fatigue %v", f)
	}
}

func TestTargetPoint_InsideBox(t *testing.T) {
	h := NewTestHumanoid(8)
	box := Box{X: 100, Y: 200, Width: 80, Height: 24}
	var sumX, sumY float64
	const n = 2000
	for i := 0; i < n; i++ {
		p := h.TargetPoint(box)
		assert.GreaterOrEqual(t, p.X, box.X+1)
		assert.LessOrEqual(t, p.X, box.X+box.Width-1)
		assert.GreaterOrEqual(t, p.Y, box.Y+1)
		assert.LessOrEqual(t, p.Y, box.Y+box.Height-1)
		sumX += p.X
		sumY += p.Y
	}
	assert.InDelta(t, box.Center().X, sumX/n, 1.0)
	assert.InDelta(t, box.Center().Y, sumY/n, 0.5)
}

func TestTargetPoint_InvalidBox(t *testing.T) {
	h := NewTestHumanoid(8)
	box := Box{X: 10, Y: 10, Width: 0, Height: 30}
	assert.Equal(t, box.Center(), h.TargetPoint(box))

	tiny := Box{X: 0, Y: 0, Width: 1, Height: 1}
	p := h.TargetPoint(tiny)
	assert.Equal(t, Point{0.5, 0.5}, p)
}
