// File: cmd/move_test.go
package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/kinesis/internal/humanoid"
)

func TestMoveCmd_PointsAndDeltas(t *testing.T) {
	out, err := executeCommand(t, "--seed", "7", "move", "--from", "0,0", "--to", "1000,0", "--points", "50", "--deltas")
	require.NoError(t, err)

	var res moveResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Points, 50)
	assert.Equal(t, humanoid.Point{X: 0, Y: 0}, res.Points[0])
	assert.Equal(t, humanoid.Point{X: 1000, Y: 0}, res.Points[49])
	assert.Equal(t, "natural", res.Mode)
	assert.Equal(t, 50, res.Params.TargetPoints)
	assert.Greater(t, res.DurationMs, 0.0)
	assert.NotEmpty(t, res.SessionID)

	require.Len(t, res.Deltas, 49)
	dx, dy := humanoid.SumSteps(res.Deltas)
	assert.Equal(t, 1000, dx)
	assert.Equal(t, 0, dy)
	assert.Nil(t, res.Playback)
}

func TestMoveCmd_SteadyPlayback(t *testing.T) {
	out, err := executeCommand(t, "--seed", "3", "move", "--from", "10,20", "--to", "310,220", "--steady", "--play")
	require.NoError(t, err)

	var res moveResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "steady", res.Mode)
	assert.Equal(t, 1.5, res.Params.OffsetBoundaryX)
	require.NotNil(t, res.Playback)
	assert.Equal(t, 300, res.Playback.EndX)
	assert.Equal(t, 200, res.Playback.EndY)
	assert.Greater(t, res.Playback.Events, 0)
}

func TestMoveCmd_BatchIsOrderedAndReproducible(t *testing.T) {
	args := []string{"--seed", "11", "move", "--from", "0,0", "--to", "400,300", "--count", "3"}

	first, err := executeCommand(t, args...)
	require.NoError(t, err)
	second, err := executeCommand(t, args...)
	require.NoError(t, err)

	var a, b []moveResult
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	require.Len(t, a, 3)
	require.Len(t, b, 3)

	for i := range a {
		if diff := cmp.Diff(a[i].Points, b[i].Points); diff != "" {
			t.Errorf("batch member %d did not replay (-first +second):\n%s", i, diff)
		}
		assert.Equal(t, humanoid.Point{X: 400, Y: 300}, a[i].Points[len(a[i].Points)-1])
	}
	assert.NotEqual(t, a[0].Points, a[1].Points, "batch members use distinct seeds")
}

func TestMoveCmd_Fatigue(t *testing.T) {
	base := []string{"--seed", "5", "move", "--from", "0,0", "--to", "800,300"}

	out, err := executeCommand(t, base...)
	require.NoError(t, err)
	var rested moveResult
	require.NoError(t, json.Unmarshal([]byte(out), &rested))
	assert.Zero(t, rested.Params.Fatigue)

	out, err = executeCommand(t, append(base, "--fatigue", "0.5")...)
	require.NoError(t, err)
	var tired moveResult
	require.NoError(t, json.Unmarshal([]byte(out), &tired))
	assert.Equal(t, 0.5, tired.Params.Fatigue)
	assert.Equal(t, humanoid.Point{X: 800, Y: 300}, tired.Points[len(tired.Points)-1])

	out, err = executeCommand(t, append(base, "--fatigue", "0.5", "--points", "30")...)
	require.NoError(t, err)
	var fixed moveResult
	require.NoError(t, json.Unmarshal([]byte(out), &fixed))
	assert.Equal(t, 0.5, fixed.Params.Fatigue)
	assert.Len(t, fixed.Points, 30)
}

func TestMoveCmd_Degenerate(t *testing.T) {
	out, err := executeCommand(t, "move", "--from", "5,5", "--to", "5,5", "--deltas")
	require.NoError(t, err)

	var res moveResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []humanoid.Point{{X: 5, Y: 5}}, res.Points)
	assert.Empty(t, res.Deltas)
}

func TestMoveCmd_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing destination", []string{"move", "--from", "0,0"}, "required flag"},
		{"malformed point", []string{"move", "--from", "a,b", "--to", "1,1"}, "invalid point"},
		{"single coordinate", []string{"move", "--from", "1", "--to", "1,1"}, "expected x,y"},
		{"zero count", []string{"move", "--from", "0,0", "--to", "1,1", "--count", "0"}, "--count"},
		{"one point", []string{"move", "--from", "0,0", "--to", "9,9", "--points", "1"}, "--points"},
		{"fatigue above one", []string{"move", "--from", "0,0", "--to", "9,9", "--fatigue", "2"}, "--fatigue"},
		{"negative fatigue", []string{"move", "--from", "0,0", "--to", "9,9", "--fatigue", "-0.5"}, "--fatigue"},
		{"coordinate out of range", []string{"move", "--from", "-1e308,0", "--to", "1e308,0"}, "coordinates"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := executeCommand(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}
