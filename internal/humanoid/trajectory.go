package humanoid

import (
	"math"

	"go.uber.org/zap"
)

// perlinFrequency converts normalized progress into noise-space distance.
// Three units across a move gives a few gentle bends, not wobble.
const perlinFrequency = 3.0

// MaxCoordinate bounds the magnitude of every coordinate the engine accepts.
// Within it, integer step sums in AccumulateDeltas cannot overflow.
const MaxCoordinate = 1e15

// checkCoordinates rejects non-finite or out-of-range points.
func checkCoordinates(points ...Point) error {
	for _, p := range points {
		if !p.IsFinite() || math.Abs(p.X) > MaxCoordinate || math.Abs(p.Y) > MaxCoordinate {
			return configErrorf("coordinates", "%v must be finite and within +/-%g", p, MaxCoordinate)
		}
	}
	return nil
}

// Trajectory is an ordered, immutable sequence of points. The first point is
// the requested origin and the last the requested destination, exactly.
type Trajectory struct {
	points []Point
	params CurveParameters
	mode   Mode
}

// NewTrajectory builds a trajectory from caller-supplied points, for
// executors that replay recorded paths through AccumulateDeltas. Every
// coordinate must be finite and within MaxCoordinate.
func NewTrajectory(points []Point) (Trajectory, error) {
	if len(points) == 0 {
		return Trajectory{}, configErrorf("trajectory", "needs at least one point")
	}
	for i, p := range points {
		if checkCoordinates(p) != nil {
			return Trajectory{}, configErrorf("trajectory", "point %d %v must be finite and within +/-%g", i, p, MaxCoordinate)
		}
	}
	cp := make([]Point, len(points))
	copy(cp, points)
	return Trajectory{points: cp, params: CurveParameters{TargetPoints: len(cp)}}, nil
}

// Points returns a copy of the trajectory's points.
func (t Trajectory) Points() []Point {
	cp := make([]Point, len(t.points))
	copy(cp, t.points)
	return cp
}

// Len returns the number of points.
func (t Trajectory) Len() int { return len(t.points) }

// At returns the i-th point.
func (t Trajectory) At(i int) Point { return t.points[i] }

// Start returns the first point.
func (t Trajectory) Start() Point { return t.points[0] }

// End returns the last point.
func (t Trajectory) End() Point { return t.points[len(t.points)-1] }

// Params returns the curve parameters used to build the trajectory.
func (t Trajectory) Params() CurveParameters { return t.params }

// Mode returns the movement mode used to build the trajectory.
func (t Trajectory) Mode() Mode { return t.mode }

// buildTrajectory runs the generation pipeline: knots, Bezier fit, tweened
// resampling, drift and tremor, optional overshoot, exact endpoints.
// Assumes the caller holds h.mu.
func (h *Humanoid) buildTrajectory(origin, destination Point, params CurveParameters, mode Mode) (Trajectory, error) {
	if err := checkCoordinates(origin, destination); err != nil {
		return Trajectory{}, err
	}
	if origin == destination {
		if err := params.validateMagnitudes(); err != nil {
			return Trajectory{}, err
		}
		h.logger.Debug("Humanoid: degenerate move, origin equals destination.",
			zap.Float64("x", origin.X), zap.Float64("y", origin.Y))
		return Trajectory{
			points: []Point{origin},
			params: CurveParameters{TargetPoints: 1},
			mode:   mode,
		}, nil
	}
	if err := params.Validate(); err != nil {
		return Trajectory{}, err
	}

	control := make([]Point, 0, params.KnotsCount+2)
	control = append(control, origin)
	control = append(control, h.generateKnots(origin, destination, params)...)
	control = append(control, destination)

	n := params.TargetPoints
	path := make([]Point, n)
	scratch := make([]Point, len(control))
	for i := 0; i < n; i++ {
		u := params.Tween.Apply(float64(i) / float64(n-1))
		path[i] = bezierPoint(control, u, scratch)
	}

	if mode == ModeNatural {
		h.applyPerlinDrift(path, origin.Dist(destination), params.Fatigue)
	}
	h.applyDistortion(path, params)
	if mode == ModeNatural && h.sampler.Bool(h.baseConfig.OvershootProbability) {
		h.applyOvershoot(path, origin, destination)
	}

	path[0] = origin
	path[n-1] = destination
	for i, p := range path {
		if !p.IsFinite() {
			return Trajectory{}, configErrorf("coordinates", "sample %d of %v -> %v is not finite", i, origin, destination)
		}
	}

	return Trajectory{points: path, params: params, mode: mode}, nil
}

// generateKnots places KnotsCount control points at stratified positions
// along the line, each displaced along the line normal. The displacement
// keeps both its x and y components within the offset boundaries and its
// length within the larger of the two.
func (h *Humanoid) generateKnots(origin, destination Point, params CurveParameters) []Point {
	k := params.KnotsCount
	if k == 0 {
		return nil
	}
	normal := destination.Sub(origin).Normalize().Perp()
	bound := math.Max(params.OffsetBoundaryX, params.OffsetBoundaryY)
	if math.Abs(normal.X) > 1e-9 {
		bound = math.Min(bound, params.OffsetBoundaryX/math.Abs(normal.X))
	}
	if math.Abs(normal.Y) > 1e-9 {
		bound = math.Min(bound, params.OffsetBoundaryY/math.Abs(normal.Y))
	}

	knots := make([]Point, k)
	slot := 1.0 / float64(k+1)
	for i := 0; i < k; i++ {
		// Jitter stays within 30% of a slot so knots never reorder.
		t := float64(i+1)*slot + h.sampler.uniform(-0.3, 0.3)*slot
		u := h.sampler.uniform(-bound, bound)
		knots[i] = origin.Lerp(destination, t).Add(normal.Mul(u))
	}
	return knots
}

// bezierPoint evaluates the Bezier curve defined by control at parameter u
// with de Casteljau's algorithm. scratch must have len(control) capacity.
func bezierPoint(control []Point, u float64, scratch []Point) Point {
	pts := scratch[:len(control)]
	copy(pts, control)
	for level := len(pts) - 1; level > 0; level-- {
		for i := 0; i < level; i++ {
			pts[i] = pts[i].Lerp(pts[i+1], u)
		}
	}
	return pts[0]
}

// applyPerlinDrift adds slow, correlated hand drift. The sin envelope is
// zero at both ends so the endpoints are untouched.
func (h *Humanoid) applyPerlinDrift(path []Point, dist, fatigue float64) {
	amp := h.baseConfig.PerlinAmplitude * (1.0 + fatigue)
	if amp <= 0 || len(path) < 3 {
		return
	}
	// Very short moves get proportionally less drift.
	amp *= math.Min(1.0, dist/100.0)
	last := float64(len(path) - 1)
	for i := 1; i < len(path)-1; i++ {
		t := float64(i) / last
		envelope := math.Sin(math.Pi * t)
		x := h.noiseTime + t*perlinFrequency
		path[i] = path[i].Add(Point{
			X: h.noiseX.Noise1D(x) * amp * envelope,
			Y: h.noiseY.Noise1D(x) * amp * envelope,
		})
	}
	h.noiseTime += perlinFrequency
}

// applyDistortion adds independent tremor jitter to interior samples.
func (h *Humanoid) applyDistortion(path []Point, params CurveParameters) {
	if params.DistortionFrequency <= 0 {
		return
	}
	for i := 1; i < len(path)-1; i++ {
		if !h.sampler.Bool(params.DistortionFrequency) {
			continue
		}
		jitter := Point{
			X: h.sampler.Sign() * h.sampler.gaussian(params.DistortionMean, params.DistortionStdDev),
			Y: h.sampler.Sign() * h.sampler.gaussian(params.DistortionMean, params.DistortionStdDev),
		}
		path[i] = path[i].Add(jitter)
	}
}

// applyOvershoot rewrites the tail of the path so the cursor sails slightly
// past the target and comes back. The sample count is preserved.
func (h *Humanoid) applyOvershoot(path []Point, origin, destination Point) {
	n := len(path)
	dist := origin.Dist(destination)
	if dist < 50 || n < 8 {
		return
	}
	m := n / 6
	if m < 3 {
		m = 3
	}
	anchorIdx := n - 1 - m
	anchor := path[anchorIdx]

	dir := destination.Sub(origin).Normalize()
	extent := clamp(dist*h.sampler.uniform(0.02, 0.06), 3, 25)
	peak := destination.Add(dir.Mul(extent)).Add(dir.Perp().Mul(h.sampler.uniform(-0.3, 0.3) * extent))

	out := (m + 1) / 2
	back := m - out
	for j := 1; j <= out; j++ {
		q := float64(j) / float64(out)
		path[anchorIdx+j] = anchor.Lerp(peak, TweenEaseOutCubic.Apply(q))
	}
	for j := 1; j <= back; j++ {
		q := float64(j) / float64(back)
		path[anchorIdx+out+j] = peak.Lerp(destination, TweenEaseInOutSine.Apply(q))
	}
}
