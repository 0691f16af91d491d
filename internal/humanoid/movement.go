package humanoid

import (
	"math"
	"time"
)

// fittsTargetWidth is the assumed target width (W) in pixels.
const fittsTargetWidth = 30.0

// MovementDuration estimates how long a move over distance takes, using
// Fitts's law with the session persona's A and B. Fatigue, refreshed from
// the session clock, lengthens the reaction intercept.
func (h *Humanoid) MovementDuration(distance float64) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.movementDuration(distance, h.refreshFatigue())
}

// MovementDurationWithFatigue is MovementDuration at a caller-supplied
// fatigue level in [0, 1].
func (h *Humanoid) MovementDurationWithFatigue(distance, fatigue float64) (time.Duration, error) {
	if !(fatigue >= 0 && fatigue <= 1) {
		return 0, configErrorf("fatigue", "must be within [0, 1], got %v", fatigue)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.movementDuration(distance, fatigue), nil
}

func (h *Humanoid) movementDuration(distance, fatigue float64) time.Duration {
	if !(distance > 0) || math.IsInf(distance, 0) {
		distance = 0
	}
	id := math.Log2(1.0 + distance/fittsTargetWidth)
	a := h.baseConfig.FittsA * (1.0 + fatigue)
	mt := a + h.baseConfig.FittsB*id
	mt += mt * h.sampler.uniform(-0.15, 0.15) // Add +/- 15% jitter

	if mt < 0 {
		mt = 0
	}
	return msDuration(mt)
}

// Box is an axis-aligned target rectangle; X and Y are its top-left corner.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the middle of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2.0, Y: b.Y + b.Height/2.0}
}

// TargetPoint determines a realistic aim point within a box: a normal
// distribution around the center over the inner 90%, clamped one pixel
// inside the edges. Empty or invalid boxes yield their center.
func (h *Humanoid) TargetPoint(box Box) Point {
	center := box.Center()
	if !(box.Width > 0 && box.Height > 0) || !center.IsFinite() {
		return center
	}

	h.mu.Lock()
	offsetX := h.sampler.gaussian(0, box.Width*0.9/6.0)
	offsetY := h.sampler.gaussian(0, box.Height*0.9/6.0)
	h.mu.Unlock()

	marginX := math.Min(1.0, box.Width/2.0)
	marginY := math.Min(1.0, box.Height/2.0)
	return Point{
		X: clamp(center.X+offsetX, box.X+marginX, box.X+box.Width-marginX),
		Y: clamp(center.Y+offsetY, box.Y+marginY, box.Y+box.Height-marginY),
	}
}
