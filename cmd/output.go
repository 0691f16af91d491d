// File: cmd/output.go
package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/xkilldash9x/kinesis/internal/config"
	"github.com/xkilldash9x/kinesis/internal/humanoid"
	"github.com/xkilldash9x/kinesis/internal/observability"
	"github.com/xkilldash9x/kinesis/internal/playback"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeJSON emits v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (humanoid.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return humanoid.Point{}, fmt.Errorf("invalid point %q: expected x,y", s)
	}
	x, err := cast.ToFloat64E(strings.TrimSpace(parts[0]))
	if err != nil {
		return humanoid.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := cast.ToFloat64E(strings.TrimSpace(parts[1]))
	if err != nil {
		return humanoid.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	p := humanoid.Point{X: x, Y: y}
	if !p.IsFinite() {
		return humanoid.Point{}, fmt.Errorf("invalid point %q: coordinates must be finite", s)
	}
	return p, nil
}

// newEngine builds a humanoid from the configuration. A seeded
// configuration is offset by index so batch members differ but replay.
func newEngine(cfg config.Interface, index int) (*humanoid.Humanoid, error) {
	engineCfg, err := cfg.Humanoid().EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid humanoid configuration: %w", err)
	}
	if engineCfg.Seed != 0 {
		engineCfg.Seed += int64(index)
	}
	return humanoid.New(engineCfg, observability.GetLogger())
}

// newRunner wraps executor in a Runner honoring the playback section.
func newRunner(cfg config.Interface, executor playback.Executor, logger *zap.Logger) *playback.Runner {
	pb := cfg.Playback()
	return playback.NewRunner(executor, logger, playback.WithMaxEventsPerSecond(pb.MaxEventsPerSecond, pb.Burst))
}

// playbackSummary describes what a recorded replay did.
type playbackSummary struct {
	Events    int     `json:"events"`
	EndX      int     `json:"end_x"`
	EndY      int     `json:"end_y"`
	Typed     string  `json:"typed,omitempty"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

func summarize(rec *playback.Recorder) *playbackSummary {
	x, y := rec.Position()
	return &playbackSummary{
		Events:    len(rec.Events()),
		EndX:      x,
		EndY:      y,
		Typed:     rec.Typed(),
		ElapsedMs: milliseconds(rec.Elapsed()),
	}
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
