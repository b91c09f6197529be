package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"eneagramas-site/internal/config"
)

// rootState is shared by every subcommand once the persistent hooks ran.
type rootState struct {
	port       string
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	st := &rootState{}
	cmd := &cobra.Command{
		Use:          "eneagramas",
		Short:        "Eneagramas: Saber Consentido site and orientation test",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(st.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			st.cfg = cfg
			st.logger, err = newLogger(cfg, st.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st.logger != nil {
				_ = st.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&st.port, "port", envPort, "port to listen on (overrides server.port)")
	cmd.PersistentFlags().StringVar(&st.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(NewStartCmd(st))
	cmd.AddCommand(NewMigrateCmd(st))
	cmd.AddCommand(NewSeedCmd(st))
	cmd.AddCommand(NewStationsCmd(st))
	cmd.AddCommand(NewRankCmd(st))
	return cmd
}

func newLogger(cfg config.Config, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
