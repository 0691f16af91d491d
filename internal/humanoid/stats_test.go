package humanoid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingStats_Accuracy(t *testing.T) {
	tests := []struct {
		typed, errors int
		want          float64
	}{
		{0, 0, 100},
		{10, 0, 100},
		{10, 2, 80},
		{4, 1, 75},
		{3, 5, 0},
	}
	for _, tc := range tests {
		s := TypingStats{CharactersTyped: tc.typed, ErrorsMade: tc.errors}
		assert.InDelta(t, tc.want, s.Accuracy(), 1e-9, "typed=%d errors=%d", tc.typed, tc.errors)
	}
}

func TestTypingStats_CurrentWPM(t *testing.T) {
	s := TypingStats{CharactersTyped: 300, ActiveTime: time.Minute}
	assert.InDelta(t, 60.0, s.CurrentWPM(), 1e-9)
	assert.Zero(t, TypingStats{CharactersTyped: 10}.CurrentWPM())
}

func TestTypingStats_TracksPlannedSpeed(t *testing.T) {
	h := newConfiguredHumanoid(t, 5, func(c *Config) {
		c.AddThinkingPauses = false
		c.KeyPauseVariance = 0
		c.PinkNoiseAmplitude = 0
	})
	_, err := h.PlanTyping("plain lowercase words typed at a steady pace", 60, 0, 0)
	assert.NoError(t, err)

	// Holds and n-gram speedups skew it, but it stays in the right range.
	wpm := h.Stats().CurrentWPM()
	assert.Greater(t, wpm, 30.0)
	assert.Less(t, wpm, 90.0)
}
