package humanoid

import (
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNoDrift(t *testing.T, traj Trajectory) {
	t.Helper()
	steps := AccumulateDeltas(traj)
	require.Len(t, steps, traj.Len()-1)
	dx, dy := SumSteps(steps)
	assert.Equal(t, int(math.Round(traj.End().X-traj.Start().X)), dx)
	assert.Equal(t, int(math.Round(traj.End().Y-traj.Start().Y)), dy)
}

func TestAccumulateDeltas_NoDrift(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		h := NewTestHumanoid(seed)
		for _, dst := range []Point{{1000.4, 0.6}, {-350.5, 220.5}, {12.49, -7.51}, {0.3, 0.3}} {
			traj, err := h.GenerateTrajectory(Point{0.2, 0.7}, dst, ModeNatural)
			require.NoError(t, err)
			assertNoDrift(t, traj)
		}
	}
}

func TestAccumulateDeltas_CarriesFractions(t *testing.T) {
	// Ten hops of 0.4 px each would all round to zero without carrying.
	pts := make([]Point, 11)
	for i := range pts {
		pts[i] = Point{X: 0.4 * float64(i)}
	}
	traj, err := NewTrajectory(pts)
	require.NoError(t, err)

	steps := AccumulateDeltas(traj)
	dx, dy := SumSteps(steps)
	assert.Equal(t, 4, dx)
	assert.Equal(t, 0, dy)
	for _, s := range steps {
		assert.LessOrEqual(t, s.DX, 1)
		assert.GreaterOrEqual(t, s.DX, 0)
	}
}

func TestAccumulateDeltas_ShortTrajectories(t *testing.T) {
	single, err := NewTrajectory([]Point{{3, 4}})
	require.NoError(t, err)
	assert.Empty(t, AccumulateDeltas(single))

	pair, err := NewTrajectory([]Point{{0.5, 0.5}, {2.5, -1.5}})
	require.NoError(t, err)
	assert.Equal(t, []Step{{DX: 2, DY: -2}}, AccumulateDeltas(pair))
}

// FuzzAccumulateDeltas checks the no-drift property on arbitrary paths.
func FuzzAccumulateDeltas(f *testing.F) {
	f.Add([]byte{4, 0, 0, 0, 0, 0, 0, 0, 9, 1, 2, 3, 4, 5, 6, 7, 8})
	f.Fuzz(func(t *testing.T, data []byte) {
		c := fuzz.NewConsumer(data)
		n, err := c.GetInt()
		if err != nil {
			return
		}
		n = 2 + int(uint(n)%64)

		pts := make([]Point, 0, n)
		for i := 0; i < n; i++ {
			x, errX := c.GetInt()
			y, errY := c.GetInt()
			if errX != nil || errY != nil {
				break
			}
			// Keep coordinates screen-sized with fractional parts.
			pts = append(pts, Point{X: float64(x%400000) / 97.0, Y: float64(y%400000) / 89.0})
		}
		if len(pts) < 2 {
			return
		}
		traj, err := NewTrajectory(pts)
		require.NoError(t, err)
		assertNoDrift(t, traj)
	})
}
