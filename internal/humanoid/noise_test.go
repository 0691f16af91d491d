package humanoid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPinkNoiseGenerator_Bounded(t *testing.T) {
	g := NewPinkNoiseGenerator(NewSeededSampler(1), 16)
	bound := math.Sqrt(16)
	for i := 0; i < 5000; i++ {
		assert.LessOrEqual(t, math.Abs(g.Next()), bound)
	}
}

func TestPinkNoiseGenerator_Correlated(t *testing.T) {
	// Consecutive pink samples move together far more than white noise does.
	g := NewPinkNoiseGenerator(NewSeededSampler(2), 0)
	prev := g.Next()
	var num, den float64
	for i := 0; i < 5000; i++ {
		v := g.Next()
		num += prev * v
		den += v * v
		prev = v
	}
	assert.Greater(t, num/den, 0.5)
}

func TestPinkNoiseGenerator_Deterministic(t *testing.T) {
	a := NewPinkNoiseGenerator(NewSeededSampler(9), 8)
	b := NewPinkNoiseGenerator(NewSeededSampler(9), 8)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}
