package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"habit-tracker/backend/internal/config"
	"habit-tracker/backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Daily habit tracker backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfigAndLogger() (*config.Config, *logger.ZapLogger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
