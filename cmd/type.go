// File: cmd/type.go
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/kinesis/internal/config"
	"github.com/xkilldash9x/kinesis/internal/humanoid"
	"github.com/xkilldash9x/kinesis/internal/observability"
	"github.com/xkilldash9x/kinesis/internal/playback"
)

type typeOptions struct {
	wpm       float64
	errorRate float64
	play      bool
	// Set from cobra's Changed so zero values can be requested explicitly.
	wpmSet, errorRateSet bool
}

// typeResult is the JSON document for a typing plan.
type typeResult struct {
	*humanoid.TypingPlan
	DurationMs float64          `json:"duration_ms"`
	Result     string           `json:"result"`
	Accuracy   float64          `json:"accuracy"`
	Playback   *playbackSummary `json:"playback,omitempty"`
}

func newTypeCmd() *cobra.Command {
	opts := typeOptions{}
	typeCmd := &cobra.Command{
		Use:   "type <text>",
		Short: "Plan the keystrokes a person would make typing text",
		Long: `Produces a keystroke plan with per-key delays, dwell times, typos and their
corrections. Multiple arguments are joined with single spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			opts.wpmSet = cmd.Flags().Changed("wpm")
			opts.errorRateSet = cmd.Flags().Changed("error-rate")

			res, err := runType(ctx, observability.GetLogger(), cfg, strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	typeCmd.Flags().Float64Var(&opts.wpm, "wpm", 0, "base words per minute (default from config)")
	typeCmd.Flags().Float64Var(&opts.errorRate, "error-rate", 0, "base per-character error rate in [0,1] (default from config)")
	typeCmd.Flags().BoolVar(&opts.play, "play", false, "replay the plan against the recording executor")
	return typeCmd
}

func runType(ctx context.Context, logger *zap.Logger, cfg config.Interface, text string, opts typeOptions) (*typeResult, error) {
	h, err := newEngine(cfg, 0)
	if err != nil {
		return nil, err
	}

	var plan *humanoid.TypingPlan
	if opts.wpmSet || opts.errorRateSet {
		engineCfg := h.Config()
		wpm, rate := engineCfg.BaseWPM, engineCfg.BaseErrorRate
		if opts.wpmSet {
			wpm = opts.wpm
		}
		if opts.errorRateSet {
			rate = opts.errorRate
		}
		plan, err = h.PlanTyping(text, wpm, rate, h.UpdateFatigueNow())
	} else {
		plan, err = h.Type(text)
	}
	if err != nil {
		return nil, err
	}

	res := &typeResult{
		TypingPlan: plan,
		DurationMs: milliseconds(plan.Duration()),
		Result:     plan.Result(),
		Accuracy:   plan.Stats.Accuracy(),
	}
	if opts.play {
		rec := playback.NewRecorder(cfg.Playback().Realtime)
		if err := newRunner(cfg, rec, logger).Type(ctx, plan); err != nil {
			return nil, err
		}
		res.Playback = summarize(rec)
	}
	logger.Info("Planned typing",
		zap.String("session_id", plan.SessionID.String()),
		zap.Stringer("tags", plan.Tags),
		zap.Int("keystrokes", len(plan.Keystrokes)),
		zap.Int("corrections", len(plan.Corrections)))
	return res, nil
}
