// File: cmd/move.go
package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/kinesis/internal/config"
	"github.com/xkilldash9x/kinesis/internal/humanoid"
	"github.com/xkilldash9x/kinesis/internal/observability"
	"github.com/xkilldash9x/kinesis/internal/playback"
)

type moveOptions struct {
	from, to string
	steady   bool
	points   int
	deltas   bool
	count    int
	play     bool
	fatigue  float64
}

// moveResult is the JSON document for one generated movement.
type moveResult struct {
	SessionID  string                   `json:"session_id"`
	Mode       string                   `json:"mode"`
	Params     humanoid.CurveParameters `json:"params"`
	DurationMs float64                  `json:"duration_ms"`
	Points     []humanoid.Point         `json:"points"`
	Deltas     []humanoid.Step          `json:"deltas,omitempty"`
	Playback   *playbackSummary         `json:"playback,omitempty"`
}

func newMoveCmd() *cobra.Command {
	opts := moveOptions{}
	moveCmd := &cobra.Command{
		Use:   "move",
		Short: "Generate a pointer trajectory between two points",
		Long: `Generates a human-like pointer path from --from to --to. Natural mode adds
curvature, tremor, drift and the occasional overshoot; --steady produces a
near-straight deliberate move.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			results, err := runMove(ctx, observability.GetLogger(), cfg, opts)
			if err != nil {
				return err
			}
			if len(results) == 1 {
				return writeJSON(cmd.OutOrStdout(), results[0])
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	moveCmd.Flags().StringVar(&opts.from, "from", "", "origin as x,y (required)")
	moveCmd.Flags().StringVar(&opts.to, "to", "", "destination as x,y (required)")
	_ = moveCmd.MarkFlagRequired("from")
	_ = moveCmd.MarkFlagRequired("to")
	moveCmd.Flags().BoolVar(&opts.steady, "steady", false, "use steady (near-straight) movement")
	moveCmd.Flags().IntVar(&opts.points, "points", 0, "exact number of trajectory points (0 lets the engine choose)")
	moveCmd.Flags().BoolVar(&opts.deltas, "deltas", false, "include integer relative steps")
	moveCmd.Flags().IntVar(&opts.count, "count", 1, "number of independent trajectories to generate")
	moveCmd.Flags().Float64Var(&opts.fatigue, "fatigue", 0, "fatigue level in [0,1] the movement is planned for")
	moveCmd.Flags().BoolVar(&opts.play, "play", false, "replay each trajectory against the recording executor")
	return moveCmd
}

// runMove generates opts.count trajectories concurrently, one engine per
// goroutine, and returns them in order.
func runMove(ctx context.Context, logger *zap.Logger, cfg config.Interface, opts moveOptions) ([]moveResult, error) {
	origin, err := parsePoint(opts.from)
	if err != nil {
		return nil, err
	}
	destination, err := parsePoint(opts.to)
	if err != nil {
		return nil, err
	}
	if opts.count < 1 {
		return nil, fmt.Errorf("--count must be at least 1, got %d", opts.count)
	}
	if opts.points < 0 || opts.points == 1 {
		return nil, fmt.Errorf("--points must be 0 or at least 2, got %d", opts.points)
	}
	if !(opts.fatigue >= 0 && opts.fatigue <= 1) {
		return nil, fmt.Errorf("--fatigue must be within [0, 1], got %v", opts.fatigue)
	}
	mode := humanoid.ModeNatural
	if opts.steady {
		mode = humanoid.ModeSteady
	}

	results := make([]moveResult, opts.count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range results {
		g.Go(func() error {
			res, err := generateMove(gctx, logger, cfg, i, origin, destination, mode, opts)
			if err != nil {
				return fmt.Errorf("trajectory %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("Generated trajectories",
		zap.Int("count", opts.count),
		zap.Stringer("mode", mode),
		zap.Float64("fatigue", opts.fatigue),
		zap.Float64("distance", origin.Dist(destination)))
	return results, nil
}

func generateMove(ctx context.Context, logger *zap.Logger, cfg config.Interface, index int, origin, destination humanoid.Point, mode humanoid.Mode, opts moveOptions) (moveResult, error) {
	h, err := newEngine(cfg, index)
	if err != nil {
		return moveResult{}, err
	}

	var traj humanoid.Trajectory
	if opts.points > 0 {
		params, err := h.SelectParameters(origin, destination, mode, opts.fatigue)
		if err != nil {
			return moveResult{}, err
		}
		params.TargetPoints = opts.points
		traj, err = h.GenerateTrajectoryWithParams(origin, destination, mode, params)
		if err != nil {
			return moveResult{}, err
		}
	} else {
		traj, err = h.GenerateTrajectoryWithFatigue(origin, destination, mode, opts.fatigue)
		if err != nil {
			return moveResult{}, err
		}
	}

	duration, err := h.MovementDurationWithFatigue(origin.Dist(destination), opts.fatigue)
	if err != nil {
		return moveResult{}, err
	}
	res := moveResult{
		SessionID:  h.SessionID().String(),
		Mode:       mode.String(),
		Params:     traj.Params(),
		DurationMs: milliseconds(duration),
		Points:     traj.Points(),
	}
	if opts.deltas {
		res.Deltas = humanoid.AccumulateDeltas(traj)
	}
	if opts.play {
		rec := playback.NewRecorder(cfg.Playback().Realtime)
		if err := newRunner(cfg, rec, logger).Move(ctx, traj, duration); err != nil {
			return moveResult{}, err
		}
		res.Playback = summarize(rec)
	}
	return res, nil
}
