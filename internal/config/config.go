// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. KINESIS_LOGGER_LEVEL.
const EnvPrefix = "KINESIS"

var envKeyReplacer = strings.NewReplacer(".", "_")

// BindEnvironment wires KINESIS_* variables onto v, so that
// KINESIS_HUMANOID_BASE_WPM overrides humanoid.base_wpm.
func BindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Humanoid() HumanoidConfig
	Playback() PlaybackConfig

	SetHumanoidSeed(seed int64)
	SetPlaybackRealtime(b bool)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	HumanoidCfg HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
	PlaybackCfg PlaybackConfig `mapstructure:"playback" yaml:"playback"`
}

// --- Interface Method Implementations ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Humanoid() HumanoidConfig { return c.HumanoidCfg }
func (c *Config) Playback() PlaybackConfig { return c.PlaybackCfg }

func (c *Config) SetHumanoidSeed(seed int64) { c.HumanoidCfg.Seed = seed }
func (c *Config) SetPlaybackRealtime(b bool) { c.PlaybackCfg.Realtime = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// PlaybackConfig controls how generated output is replayed by the CLI.
type PlaybackConfig struct {
	// MaxEventsPerSecond bounds the executor event rate; 0 means unbounded.
	MaxEventsPerSecond float64 `mapstructure:"max_events_per_second" yaml:"max_events_per_second"`
	Burst              int     `mapstructure:"burst" yaml:"burst"`
	// Realtime makes the dry-run executor actually sleep.
	Realtime bool `mapstructure:"realtime" yaml:"realtime"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "kinesis")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Humanoid --
	setHumanoidDefaults(v)

	// -- Playback --
	v.SetDefault("playback.max_events_per_second", 0)
	v.SetDefault("playback.burst", 1)
	v.SetDefault("playback.realtime", false)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.LoggerCfg.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be 'console' or 'json', got %q", c.LoggerCfg.Format)
	}
	if c.PlaybackCfg.MaxEventsPerSecond < 0 {
		return fmt.Errorf("playback.max_events_per_second must not be negative")
	}
	if c.PlaybackCfg.Burst < 1 {
		return fmt.Errorf("playback.burst must be at least 1")
	}
	return c.HumanoidCfg.Validate()
}

// DefaultSearchPaths lists where a config.yaml is looked for: the working
// directory first, then ~/.kinesis.
func DefaultSearchPaths() ([]string, error) {
	home, err := homedir.Expand("~/.kinesis")
	if err != nil {
		return []string{"."}, fmt.Errorf("could not resolve home directory: %w", err)
	}
	return []string{".", filepath.Clean(home)}, nil
}

// ExpandPath resolves a leading ~ in user-supplied paths such as log files.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}
