// internal/humanoid/config.go
package humanoid

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Config holds the parameters defining the behavior of the simulation.
type Config struct {
	// Source overrides the randomness source. When nil, Seed is used; when
	// Seed is also zero the engine seeds itself from crypto/rand.
	Source rand.Source `json:"-" yaml:"-"`
	Seed   int64       `json:"seed" yaml:"seed"`

	// Typing Behavior
	BaseWPM           float64 `json:"base_wpm" yaml:"base_wpm"`
	BaseErrorRate     float64 `json:"base_error_rate" yaml:"base_error_rate"`
	SpeedMultiplier   float64 `json:"speed_multiplier" yaml:"speed_multiplier"`
	SimulateErrors    bool    `json:"simulate_errors" yaml:"simulate_errors"`
	UsePasteShortcuts bool    `json:"use_paste_shortcuts" yaml:"use_paste_shortcuts"`
	AddThinkingPauses bool    `json:"add_thinking_pauses" yaml:"add_thinking_pauses"`
	SimulateFatigue   bool    `json:"simulate_fatigue" yaml:"simulate_fatigue"`
	ContextAware      bool    `json:"context_aware" yaml:"context_aware"`

	ThinkingPauseProbability         float64
	ThinkingPauseMinMs               float64
	ThinkingPauseMaxMs               float64
	SpontaneousCorrectionProbability float64
	PastePauseMinMs, PastePauseMaxMs float64

	// Key Pause (IKD) Parameters
	KeyPauseVariance      float64 // relative stddev of the per-key delay
	KeyPauseMin           float64 // ms
	KeyPauseNgramFactor2  float64
	KeyPauseNgramFactor3  float64
	KeyPauseFatigueFactor float64
	PunctuationFactor     float64
	ShiftFactor           float64
	PinkNoiseAmplitude    float64

	// Typo Correction Behavior
	TypoCorrectionPauseScale float64 // notice pause before the first backspace
	CorrectionSpeedScale     float64 // remaining correction keystrokes

	// Typo Probabilities (conditional on a typo happening)
	TypoNeighborRate  float64 `json:"typoNeighborRate" yaml:"typoNeighborRate"`
	TypoTransposeRate float64 `json:"typoTransposeRate" yaml:"typoTransposeRate"`
	TypoCaseRate      float64 `json:"typoCaseRate" yaml:"typoCaseRate"`

	// Session persona distributions
	KeyHoldMeanMs, KeyHoldStdDevMs float64
	FittsAMean, FittsAStdDev       float64
	FittsBMean, FittsBStdDev       float64

	// Instance Parameters, fixed by FinalizeSessionPersona.
	KeyHoldMean, KeyHoldStdDev float64
	FittsA, FittsB             float64

	// Movement
	OvershootProbability float64
	PerlinAmplitude      float64

	// Fatigue Modeling
	FatigueTimeConstant time.Duration
}

// DefaultConfig returns a configuration representing an average user.
func DefaultConfig() Config {
	c := Config{
		BaseWPM:                          60,
		BaseErrorRate:                    0.03,
		SpeedMultiplier:                  1.0,
		SimulateErrors:                   true,
		UsePasteShortcuts:                true,
		AddThinkingPauses:                true,
		SimulateFatigue:                  true,
		ContextAware:                     true,
		ThinkingPauseProbability:         0.15,
		ThinkingPauseMinMs:               300,
		ThinkingPauseMaxMs:               1500,
		SpontaneousCorrectionProbability: 0.05,
		PastePauseMinMs:                  250,
		PastePauseMaxMs:                  600,
		KeyPauseVariance:                 0.25,
		KeyPauseMin:                      35,
		KeyPauseNgramFactor2:             0.7,
		KeyPauseNgramFactor3:             0.55,
		KeyPauseFatigueFactor:            0.3,
		PunctuationFactor:                1.4,
		ShiftFactor:                      1.25,
		PinkNoiseAmplitude:               0.1,
		TypoCorrectionPauseScale:         1.8,
		CorrectionSpeedScale:             0.6,
		TypoNeighborRate:                 0.60,
		TypoTransposeRate:                0.25,
		TypoCaseRate:                     0.15,
		KeyHoldMeanMs:                    55.0, KeyHoldStdDevMs: 15.0,
		FittsAMean:                       100.0, FittsAStdDev: 15.0,
		FittsBMean:                       120.0, FittsBStdDev: 20.0,
		OvershootProbability:             0.08,
		PerlinAmplitude:                  1.5,
		FatigueTimeConstant:              45 * time.Minute,
	}
	c.NormalizeTypoRates()
	return c
}

// FinalizeSessionPersona draws the fixed instance parameters for a session.
func (c *Config) FinalizeSessionPersona(s *Sampler) {
	c.KeyHoldMean = math.Max(20.0, s.gaussian(c.KeyHoldMeanMs, c.KeyHoldStdDevMs))
	c.KeyHoldStdDev = c.KeyHoldStdDevMs
	c.FittsA = math.Max(0, s.gaussian(c.FittsAMean, c.FittsAStdDev))
	c.FittsB = math.Max(1, s.gaussian(c.FittsBMean, c.FittsBStdDev))
}

// NormalizeTypoRates ensures the conditional typo probabilities sum up to 1.
func (c *Config) NormalizeTypoRates() {
	total := c.TypoNeighborRate + c.TypoTransposeRate + c.TypoCaseRate
	if total <= 1e-9 {
		c.TypoNeighborRate = 1.0
		c.TypoTransposeRate = 0
		c.TypoCaseRate = 0
		return
	}
	c.TypoNeighborRate /= total
	c.TypoTransposeRate /= total
	c.TypoCaseRate /= total
}

// Validate rejects out-of-range values rather than clamping them.
func (c *Config) Validate() error {
	if !(c.BaseWPM > 0) || math.IsInf(c.BaseWPM, 0) {
		return configErrorf("base_wpm", "must be positive, got %v", c.BaseWPM)
	}
	if !(c.BaseErrorRate >= 0 && c.BaseErrorRate <= 1) {
		return configErrorf("base_error_rate", "must be within [0, 1], got %v", c.BaseErrorRate)
	}
	if !(c.SpeedMultiplier > 0) || math.IsInf(c.SpeedMultiplier, 0) {
		return configErrorf("speed_multiplier", "must be positive, got %v", c.SpeedMultiplier)
	}
	probabilities := map[string]float64{
		"thinking_pause_probability":         c.ThinkingPauseProbability,
		"spontaneous_correction_probability": c.SpontaneousCorrectionProbability,
		"overshoot_probability":              c.OvershootProbability,
	}
	for _, name := range sortedKeys(probabilities) {
		if p := probabilities[name]; !(p >= 0 && p <= 1) {
			return configErrorf(name, "must be within [0, 1], got %v", p)
		}
	}
	if c.ThinkingPauseMinMs < 0 || c.ThinkingPauseMinMs > c.ThinkingPauseMaxMs {
		return configErrorf("thinking_pause", "range [%v, %v] ms is invalid", c.ThinkingPauseMinMs, c.ThinkingPauseMaxMs)
	}
	if c.PastePauseMinMs < 0 || c.PastePauseMinMs > c.PastePauseMaxMs {
		return configErrorf("paste_pause", "range [%v, %v] ms is invalid", c.PastePauseMinMs, c.PastePauseMaxMs)
	}
	if c.KeyPauseVariance < 0 || c.KeyPauseMin < 0 || c.PerlinAmplitude < 0 || c.PinkNoiseAmplitude < 0 {
		return configErrorf("timing", "variances, minimum pause and noise amplitudes must be non-negative")
	}
	if c.FatigueTimeConstant <= 0 {
		return configErrorf("fatigue_time_constant", "must be a positive duration, got %s", c.FatigueTimeConstant)
	}
	return nil
}

// ApplyOptions sets the flat key/value options recognized by the engine.
// Values are converted loosely ("true", 1, "0.8"); unknown keys and values
// that fail to convert are configuration errors and leave c untouched.
func (c *Config) ApplyOptions(options map[string]interface{}) error {
	next := *c
	for _, key := range sortedKeys(options) {
		raw := options[key]
		var err error
		switch strings.ToLower(key) {
		case "simulate_errors":
			next.SimulateErrors, err = cast.ToBoolE(raw)
		case "use_paste_shortcuts":
			next.UsePasteShortcuts, err = cast.ToBoolE(raw)
		case "add_thinking_pauses":
			next.AddThinkingPauses, err = cast.ToBoolE(raw)
		case "simulate_fatigue":
			next.SimulateFatigue, err = cast.ToBoolE(raw)
		case "context_aware":
			next.ContextAware, err = cast.ToBoolE(raw)
		case "speed_multiplier":
			next.SpeedMultiplier, err = cast.ToFloat64E(raw)
		case "base_wpm":
			next.BaseWPM, err = cast.ToFloat64E(raw)
		case "base_error_rate":
			next.BaseErrorRate, err = cast.ToFloat64E(raw)
		default:
			return configErrorf(key, "unknown option")
		}
		if err != nil {
			return configErrorf(key, "%v", err)
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
