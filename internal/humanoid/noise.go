// File: internal/humanoid/noise.go
package humanoid

import (
	"math"
)

// PinkNoiseGenerator implements the stochastic Voss-McCartney algorithm for
// 1/f noise. Typing rhythm drifts with this kind of long-range correlation,
// so the cadence engine multiplies each delay by a pink sample instead of
// drawing independent jitter for every key.
type PinkNoiseGenerator struct {
	sampler *Sampler
	values  []float64 // current value of each white noise source
	p       []float64 // probability of change for each source
	pink    float64   // running sum of sources
	n       int
	scale   float64
}

// NewPinkNoiseGenerator creates a generator with n sources (12 when n <= 0).
func NewPinkNoiseGenerator(sampler *Sampler, n int) *PinkNoiseGenerator {
	if n <= 0 {
		n = 12
	}
	g := &PinkNoiseGenerator{
		sampler: sampler,
		values:  make([]float64, n),
		p:       make([]float64, n),
		n:       n,
		// Scaling by 1/sqrt(N) keeps the amplitude roughly independent of N.
		scale: 1.0 / math.Sqrt(float64(n)),
	}

	// Source i changes with probability proportional to 2^-i.
	totalP := 0.0
	for i := 0; i < n; i++ {
		g.p[i] = math.Pow(2, float64(-i))
		totalP += g.p[i]
	}
	for i := 0; i < n; i++ {
		g.p[i] /= totalP
	}

	g.Reset()
	return g
}

// Reset re-draws every source, starting a fresh correlated sequence.
func (g *PinkNoiseGenerator) Reset() {
	g.pink = 0
	for i := 0; i < g.n; i++ {
		g.values[i] = g.nextWhite()
		g.pink += g.values[i]
	}
}

// nextWhite generates white noise in [-1, 1).
func (g *PinkNoiseGenerator) nextWhite() float64 {
	return g.sampler.Float64()*2.0 - 1.0
}

// Next returns the next normalized pink noise sample. Values stay within
// [-sqrt(n), sqrt(n)] and are near [-1, 1] in practice.
func (g *PinkNoiseGenerator) Next() float64 {
	r := g.sampler.Float64()
	cumulative := 0.0
	idx := g.n - 1
	for i := 0; i < g.n; i++ {
		cumulative += g.p[i]
		if r < cumulative {
			idx = i
			break
		}
	}

	old := g.values[idx]
	fresh := g.nextWhite()
	g.values[idx] = fresh
	g.pink += fresh - old

	return g.pink * g.scale
}
