package main

import (
	"fmt"
	"os"

	"github.com/sovereign-systems/acsa/internal/config"
	"github.com/sovereign-systems/acsa/internal/logger"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "acsa",
	Short: "ACSA router",
	Long:  `ACSA composes the cognitive cleaner, safety breaker, dose meter, audit log, and stats accounting around a multi-agent planning loop.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.FromEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Setup(cfg.LogLevel)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
