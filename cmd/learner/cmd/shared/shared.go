// Package shared holds helpers used by several learner subcommands.
package shared

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"language-learner/internal/app/logging"
	"language-learner/internal/config"
)

// Logger builds the process logger, honoring the persistent --verbose flag.
func Logger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.NewLogger(verbose)
}

// LoadConfig loads .env and the course config named by --config.
func LoadConfig(cmd *cobra.Command, logger *zap.Logger) (*config.Config, error) {
	envPath, err := config.LoadEnv()
	if err != nil {
		logger.Warn("could not load env file", zap.Error(err))
	} else if envPath != "" {
		logger.Debug("loaded env file", zap.String("path", envPath))
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", zap.String("path", path), zap.String("course", cfg.Course.Name))
	return cfg, nil
}
