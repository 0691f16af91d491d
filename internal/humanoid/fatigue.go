package humanoid

import (
	"math"
	"time"
)

// FatigueState is the session-wide tiredness of the simulated user.
type FatigueState struct {
	SessionStart time.Time `json:"session_start"`
	Level        float64   `json:"fatigue_level"`
}

// fatigueCurve maps elapsed session time to [0, 1): 1 - e^(-t/tau). It is
// strictly increasing, saturating, and 0 at t <= 0. After one time constant
// the level is ~0.63, after three ~0.95.
func fatigueCurve(elapsed, tau time.Duration) float64 {
	if elapsed <= 0 || tau <= 0 {
		return 0
	}
	return clamp(1.0-math.Exp(-float64(elapsed)/float64(tau)), 0, 1)
}
