package humanoid

import (
	"strconv"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Standard Perlin noise parameters.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = int32(3)
)

// Humanoid is one simulated user session. It owns the randomness source,
// the fatigue state and the typing stats; independent instances share
// nothing. All generation is synchronous and never sleeps.
type Humanoid struct {
	// mu protects all fields within the Humanoid struct from concurrent access.
	// Exported methods acquire it; unexported helpers assume it is held.
	mu         sync.Mutex
	baseConfig Config
	logger     *zap.Logger
	sampler    *Sampler
	pink       *PinkNoiseGenerator
	noiseX     *perlin.Perlin
	noiseY     *perlin.Perlin
	noiseTime  float64
	now        func() time.Time
	sessionID  uuid.UUID
	fatigue    FatigueState
	stats      TypingStats
}

// New creates and initializes a new Humanoid instance. The configuration is
// validated; a Source or non-zero Seed makes the session reproducible.
func New(config Config, logger *zap.Logger) (*Humanoid, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var sampler *Sampler
	switch {
	case config.Source != nil:
		sampler = NewSampler(config.Source)
	case config.Seed != 0:
		sampler = NewSeededSampler(config.Seed)
	default:
		sampler = NewSampler(nil)
	}

	config.NormalizeTypoRates()
	config.FinalizeSessionPersona(sampler)

	// Perlin seeds come from the same stream so a seeded session replays
	// its drift as well.
	seed := sampler.Int63()
	h := &Humanoid{
		baseConfig: config,
		logger:     logger.Named("humanoid"),
		sampler:    sampler,
		pink:       NewPinkNoiseGenerator(sampler, 0),
		noiseX:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed),
		noiseY:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed+1),
		now:        time.Now,
	}
	h.resetSession()
	return h, nil
}

// NewTestHumanoid creates a Humanoid instance with deterministic dependencies
// for testing: a fixed seed, a frozen clock and a no-op logger.
func NewTestHumanoid(seed int64) *Humanoid {
	config := DefaultConfig()
	config.Seed = seed
	if seed == 0 {
		config.Seed = 1
	}
	h, err := New(config, zap.NewNop())
	if err != nil {
		// DefaultConfig always validates.
		panic(err)
	}

	frozen := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = func() time.Time { return frozen }
	h.fatigue.SessionStart = frozen
	h.stats.SessionStart = frozen
	// Session IDs are random by nature; tests pin them for exact replays.
	h.sessionID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.FormatInt(seed, 10)))
	return h
}

// SessionID identifies the current session.
func (h *Humanoid) SessionID() uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessionID
}

// Config returns a copy of the session configuration, persona included.
func (h *Humanoid) Config() Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.baseConfig
}

// FatigueLevel returns the current fatigue level in [0, 1].
func (h *Humanoid) FatigueLevel() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fatigue.Level
}

// Fatigue returns a snapshot of the fatigue state.
func (h *Humanoid) Fatigue() FatigueState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fatigue
}

// Stats returns a snapshot of the session's typing stats.
func (h *Humanoid) Stats() TypingStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// ResetSession starts a new session: new ID, zero fatigue, zero stats.
func (h *Humanoid) ResetSession() {
	h.mu.Lock()
	defer h.mu.Unlock()
	previous := h.sessionID
	h.resetSession()
	h.logger.Info("Humanoid: session reset.",
		zap.String("previous_session_id", previous.String()),
		zap.String("session_id", h.sessionID.String()))
}

func (h *Humanoid) resetSession() {
	start := h.now()
	h.sessionID = uuid.New()
	h.fatigue = FatigueState{SessionStart: start}
	h.stats = TypingStats{SessionStart: start}
	h.pink.Reset()
}

// UpdateFatigue advances fatigue to the level for elapsed session time and
// returns it. The level never decreases within a session, and stays at 0
// when fatigue simulation is disabled.
func (h *Humanoid) UpdateFatigue(elapsed time.Duration) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.updateFatigue(elapsed)
}

// UpdateFatigueNow advances fatigue using the time since the session started.
func (h *Humanoid) UpdateFatigueNow() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refreshFatigue()
}

func (h *Humanoid) refreshFatigue() float64 {
	return h.updateFatigue(h.now().Sub(h.fatigue.SessionStart))
}

func (h *Humanoid) updateFatigue(elapsed time.Duration) float64 {
	if !h.baseConfig.SimulateFatigue {
		return h.fatigue.Level
	}
	if level := fatigueCurve(elapsed, h.baseConfig.FatigueTimeConstant); level > h.fatigue.Level {
		h.fatigue.Level = level
	}
	return h.fatigue.Level
}

// SelectParameters picks curve parameters for a move at the given fatigue.
func (h *Humanoid) SelectParameters(origin, destination Point, mode Mode, fatigue float64) (CurveParameters, error) {
	if err := checkMoveInput(origin, destination, fatigue); err != nil {
		return CurveParameters{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return selectParameters(h.sampler, origin, destination, mode, fatigue), nil
}

// GenerateTrajectory builds a path from origin to destination with
// parameters chosen for the distance, mode and the session's fatigue, which
// is refreshed from the session clock first.
func (h *Humanoid) GenerateTrajectory(origin, destination Point, mode Mode) (Trajectory, error) {
	if err := checkCoordinates(origin, destination); err != nil {
		return Trajectory{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generateTrajectory(origin, destination, mode, h.refreshFatigue())
}

// GenerateTrajectoryWithFatigue is GenerateTrajectory at a caller-supplied
// fatigue level in [0, 1]. The session's own fatigue is left untouched.
func (h *Humanoid) GenerateTrajectoryWithFatigue(origin, destination Point, mode Mode, fatigue float64) (Trajectory, error) {
	if err := checkMoveInput(origin, destination, fatigue); err != nil {
		return Trajectory{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generateTrajectory(origin, destination, mode, fatigue)
}

// generateTrajectory assumes the caller holds h.mu.
func (h *Humanoid) generateTrajectory(origin, destination Point, mode Mode, fatigue float64) (Trajectory, error) {
	params := selectParameters(h.sampler, origin, destination, mode, fatigue)
	t, err := h.buildTrajectory(origin, destination, params, mode)
	if err != nil {
		return Trajectory{}, err
	}
	h.logger.Debug("Humanoid: generated trajectory.",
		zap.String("session_id", h.sessionID.String()),
		zap.Stringer("mode", mode),
		zap.Stringer("params", params),
		zap.Int("points", t.Len()))
	return t, nil
}

func checkMoveInput(origin, destination Point, fatigue float64) error {
	if err := checkCoordinates(origin, destination); err != nil {
		return err
	}
	if !(fatigue >= 0 && fatigue <= 1) {
		return configErrorf("fatigue", "must be within [0, 1], got %v", fatigue)
	}
	return nil
}

// GenerateTrajectoryWithParams builds a path using caller-supplied
// parameters, bypassing selection. Invalid parameters are rejected.
func (h *Humanoid) GenerateTrajectoryWithParams(origin, destination Point, mode Mode, params CurveParameters) (Trajectory, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buildTrajectory(origin, destination, params, mode)
}
