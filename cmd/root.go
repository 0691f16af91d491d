// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/kinesis/internal/config"
	"github.com/xkilldash9x/kinesis/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state out of package globals, which lets tests run commands in isolation.
func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		seed     int64
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:   "kinesis",
		Short: "Kinesis synthesizes human-like pointer movement and typing.",
		Long: `Kinesis generates pointer trajectories and keystroke timing plans that
resemble a real person at the controls. Output is JSON; --play replays it
against a recording executor.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
				v.Set("logger.level", logLevel)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger())
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
				cfg.SetHumanoidSeed(seed)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting kinesis", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml or ~/.kinesis/config.yaml)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "seed for reproducible output (0 draws from system entropy)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logger.level")

	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newTypeCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the CLI with a signal-aware context and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initializeConfig reads the config file, if any, and binds KINESIS_*
// environment variables onto v.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		path, err := config.ExpandPath(cfgFile)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		paths, err := config.DefaultSearchPaths()
		if err != nil {
			// Still search the working directory.
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	config.BindEnvironment(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}
	return nil
}

// getConfigFromContext returns the configuration stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not found in command context")
	}
	return cfg, nil
}
