package humanoid

import "math"

// Step is one integer relative pointer move.
type Step struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// AccumulateDeltas converts a trajectory into one integer step per hop for
// executors that only accept relative pixel moves. Each hop's fractional
// remainder is carried into the next, and the last step absorbs whatever is
// left so that the steps sum to exactly round(end - start) on both axes.
// A single-point trajectory yields no steps.
func AccumulateDeltas(t Trajectory) []Step {
	pts := t.points
	if len(pts) < 2 {
		return []Step{}
	}

	steps := make([]Step, 0, len(pts)-1)
	var carryX, carryY float64
	sumX, sumY := 0, 0
	for i := 1; i < len(pts); i++ {
		carryX += pts[i].X - pts[i-1].X
		carryY += pts[i].Y - pts[i-1].Y

		dx := int(math.Round(carryX))
		dy := int(math.Round(carryY))
		carryX -= float64(dx)
		carryY -= float64(dy)

		steps = append(steps, Step{DX: dx, DY: dy})
		sumX += dx
		sumY += dy
	}

	first, last := pts[0], pts[len(pts)-1]
	tail := &steps[len(steps)-1]
	tail.DX += int(math.Round(last.X-first.X)) - sumX
	tail.DY += int(math.Round(last.Y-first.Y)) - sumY
	return steps
}

// SumSteps returns the total displacement of a step sequence.
func SumSteps(steps []Step) (dx, dy int) {
	for _, s := range steps {
		dx += s.DX
		dy += s.DY
	}
	return dx, dy
}
