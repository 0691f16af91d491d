// File: internal/config/humanoid_config.go
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/kinesis/internal/humanoid"
)

// HumanoidConfig is the "humanoid" section of the configuration file. It
// carries the user-tunable subset of the simulation's parameters: the flat
// behavior switches, base rates and the few probabilities worth exposing.
// Everything else keeps the engine default.
type HumanoidConfig struct {
	// Seed makes every session reproducible when non-zero.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// Flat behavior options.
	BaseWPM           float64 `mapstructure:"base_wpm" yaml:"base_wpm"`
	BaseErrorRate     float64 `mapstructure:"base_error_rate" yaml:"base_error_rate"`
	SpeedMultiplier   float64 `mapstructure:"speed_multiplier" yaml:"speed_multiplier"`
	SimulateErrors    bool    `mapstructure:"simulate_errors" yaml:"simulate_errors"`
	UsePasteShortcuts bool    `mapstructure:"use_paste_shortcuts" yaml:"use_paste_shortcuts"`
	AddThinkingPauses bool    `mapstructure:"add_thinking_pauses" yaml:"add_thinking_pauses"`
	SimulateFatigue   bool    `mapstructure:"simulate_fatigue" yaml:"simulate_fatigue"`
	ContextAware      bool    `mapstructure:"context_aware" yaml:"context_aware"`

	ThinkingPauseProbability         float64       `mapstructure:"thinking_pause_probability" yaml:"thinking_pause_probability"`
	SpontaneousCorrectionProbability float64       `mapstructure:"spontaneous_correction_probability" yaml:"spontaneous_correction_probability"`
	OvershootProbability             float64       `mapstructure:"overshoot_probability" yaml:"overshoot_probability"`
	FatigueTimeConstant              time.Duration `mapstructure:"fatigue_time_constant" yaml:"fatigue_time_constant"`
}

// setHumanoidDefaults mirrors humanoid.DefaultConfig so a missing config
// file yields the engine's average user.
func setHumanoidDefaults(v *viper.Viper) {
	d := humanoid.DefaultConfig()
	v.SetDefault("humanoid.seed", 0)
	v.SetDefault("humanoid.base_wpm", d.BaseWPM)
	v.SetDefault("humanoid.base_error_rate", d.BaseErrorRate)
	v.SetDefault("humanoid.speed_multiplier", d.SpeedMultiplier)
	v.SetDefault("humanoid.simulate_errors", d.SimulateErrors)
	v.SetDefault("humanoid.use_paste_shortcuts", d.UsePasteShortcuts)
	v.SetDefault("humanoid.add_thinking_pauses", d.AddThinkingPauses)
	v.SetDefault("humanoid.simulate_fatigue", d.SimulateFatigue)
	v.SetDefault("humanoid.context_aware", d.ContextAware)
	v.SetDefault("humanoid.thinking_pause_probability", d.ThinkingPauseProbability)
	v.SetDefault("humanoid.spontaneous_correction_probability", d.SpontaneousCorrectionProbability)
	v.SetDefault("humanoid.overshoot_probability", d.OvershootProbability)
	v.SetDefault("humanoid.fatigue_time_constant", d.FatigueTimeConstant.String())
}

// Options returns the flat option map understood by humanoid.Config.ApplyOptions.
func (h HumanoidConfig) Options() map[string]interface{} {
	return map[string]interface{}{
		"base_wpm":            h.BaseWPM,
		"base_error_rate":     h.BaseErrorRate,
		"speed_multiplier":    h.SpeedMultiplier,
		"simulate_errors":     h.SimulateErrors,
		"use_paste_shortcuts": h.UsePasteShortcuts,
		"add_thinking_pauses": h.AddThinkingPauses,
		"simulate_fatigue":    h.SimulateFatigue,
		"context_aware":       h.ContextAware,
	}
}

// EngineConfig overlays this section on the engine defaults and validates
// the result.
func (h HumanoidConfig) EngineConfig() (humanoid.Config, error) {
	cfg := humanoid.DefaultConfig()
	cfg.Seed = h.Seed
	cfg.ThinkingPauseProbability = h.ThinkingPauseProbability
	cfg.SpontaneousCorrectionProbability = h.SpontaneousCorrectionProbability
	cfg.OvershootProbability = h.OvershootProbability
	cfg.FatigueTimeConstant = h.FatigueTimeConstant
	if err := cfg.ApplyOptions(h.Options()); err != nil {
		return humanoid.Config{}, err
	}
	return cfg, nil
}

// Validate checks the section by building the engine configuration from it.
// Engine errors already name the section, so they are returned as is.
func (h HumanoidConfig) Validate() error {
	_, err := h.EngineConfig()
	return err
}
