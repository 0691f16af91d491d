package humanoid

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects between natural, human-looking movement and steady movement
// for precise, deliberate moves.
type Mode int

const (
	ModeNatural Mode = iota
	ModeSteady
)

func (m Mode) String() string {
	switch m {
	case ModeSteady:
		return "steady"
	default:
		return "natural"
	}
}

// ParseMode maps "natural" / "steady" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "natural":
		return ModeNatural, nil
	case "steady":
		return ModeSteady, nil
	}
	return ModeNatural, configErrorf("mode", "unknown mode %q", s)
}

// CurveParameters shape one trajectory.
type CurveParameters struct {
	// OffsetBoundaryX/Y bound the x and y components of each knot's
	// displacement away from the straight line.
	OffsetBoundaryX float64 `json:"offset_boundary_x"`
	OffsetBoundaryY float64 `json:"offset_boundary_y"`
	// KnotsCount is the number of interior control points.
	KnotsCount int `json:"knots_count"`
	// Distortion models hand tremor: the probability that a resampled point
	// receives extra jitter and the jitter magnitude distribution.
	DistortionMean      float64 `json:"distortion_mean"`
	DistortionStdDev    float64 `json:"distortion_st_dev"`
	DistortionFrequency float64 `json:"distortion_frequency"`
	Tween               Tween   `json:"tween"`
	// TargetPoints is the exact length of the produced trajectory.
	TargetPoints int `json:"target_points"`
	// Fatigue is the level the parameters were chosen for. It also scales
	// the hand drift added to natural moves.
	Fatigue float64 `json:"fatigue"`
}

const (
	maxKnots             = 8
	maxOffsetBoundary    = 100.0
	minTargetPoints      = 2
	minNaturalPoints     = 10
	maxTargetPoints      = 150
	steadyOffsetBoundary = 1.5
)

var (
	offsetRanges  = [][2]float64{{20, 45}, {45, 75}, {75, 100}}
	offsetWeights = []float64{0.20, 0.65, 0.15}
)

// Validate checks the parameters for a non-degenerate move.
func (p CurveParameters) Validate() error {
	if err := p.validateMagnitudes(); err != nil {
		return err
	}
	if p.TargetPoints < minTargetPoints {
		return configErrorf("target_points", "must be at least %d, got %d", minTargetPoints, p.TargetPoints)
	}
	if !p.Tween.Valid() {
		return configErrorf("tween", "unknown easing function %q", string(p.Tween))
	}
	return nil
}

func (p CurveParameters) validateMagnitudes() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"offset_boundary_x", p.OffsetBoundaryX},
		{"offset_boundary_y", p.OffsetBoundaryY},
		{"distortion_mean", p.DistortionMean},
		{"distortion_st_dev", p.DistortionStdDev},
		{"distortion_frequency", p.DistortionFrequency},
		{"fatigue", p.Fatigue},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return configErrorf(f.name, "must be a finite non-negative number, got %v", f.value)
		}
	}
	if p.DistortionFrequency > 1 {
		return configErrorf("distortion_frequency", "is a probability, got %v", p.DistortionFrequency)
	}
	if p.Fatigue > 1 {
		return configErrorf("fatigue", "must be within [0, 1], got %v", p.Fatigue)
	}
	if p.KnotsCount < 0 {
		return configErrorf("knots_count", "must be non-negative, got %d", p.KnotsCount)
	}
	return nil
}

func (p CurveParameters) String() string {
	return fmt.Sprintf("knots=%d points=%d offset=(%.1f,%.1f) distortion=(%.2f,%.2f,%.2f) tween=%s fatigue=%.2f",
		p.KnotsCount, p.TargetPoints, p.OffsetBoundaryX, p.OffsetBoundaryY,
		p.DistortionMean, p.DistortionStdDev, p.DistortionFrequency, p.Tween, p.Fatigue)
}

// selectParameters maps distance, mode and fatigue to a parameter set.
func selectParameters(s *Sampler, origin, destination Point, mode Mode, fatigue float64) CurveParameters {
	dist := origin.Dist(destination)
	if dist == 0 {
		return CurveParameters{TargetPoints: 1}
	}
	fatigue = clamp(fatigue, 0, 1)
	// Tired hands move in fewer, coarser updates.
	density := 1.0 - 0.15*fatigue

	if mode == ModeSteady {
		points := 20 + int(math.Sqrt(dist)*1.2)
		return CurveParameters{
			OffsetBoundaryX: steadyOffsetBoundary,
			OffsetBoundaryY: steadyOffsetBoundary,
			KnotsCount:      s.Intn(2),
			Tween:           steadyTweens[s.Intn(len(steadyTweens))],
			TargetPoints:    clampInt(int(float64(points)*density), minNaturalPoints, maxTargetPoints),
			Fatigue:         fatigue,
		}
	}

	// Long moves bend more, short flicks barely curve.
	distScale := clamp(dist/400.0, 0.1, 1.0)
	widen := 1.0 + 0.5*fatigue
	bx := math.Min(maxOffsetBoundary, s.weightedRange(offsetRanges, offsetWeights)*distScale*widen)
	by := math.Min(maxOffsetBoundary, s.weightedRange(offsetRanges, offsetWeights)*distScale*widen)

	knots := 2 + int(dist/400.0) + s.Intn(3) - 1
	if dist < 20 {
		knots = 1
	}

	points := 25 + int(math.Sqrt(dist)*1.6) + s.Intn(11) - 5

	return CurveParameters{
		OffsetBoundaryX:     bx,
		OffsetBoundaryY:     by,
		KnotsCount:          clampInt(knots, 1, maxKnots),
		DistortionMean:      s.uniform(0.80, 1.10) * widen,
		DistortionStdDev:    s.uniform(0.85, 1.10) * (1.0 + fatigue),
		DistortionFrequency: math.Min(1.0, s.uniform(0.25, 0.70)*widen),
		Tween:               naturalTweens[s.Intn(len(naturalTweens))],
		TargetPoints:        clampInt(int(float64(points)*density), minNaturalPoints, maxTargetPoints),
		Fatigue:             fatigue,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
