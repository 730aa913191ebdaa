package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sovereign-systems/acsa/internal/concurrency"
	"github.com/sovereign-systems/acsa/internal/dose"
	"github.com/sovereign-systems/acsa/internal/router"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Route a single request through the S0-S7 state machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}
		if input == "" {
			return fmt.Errorf("--input is required")
		}
		userID, _ := cmd.Flags().GetString("user")
		seed, _ := cmd.Flags().GetInt64("seed")

		engine, cleanup, err := buildEngine(cfg)
		if err != nil {
			return fmt.Errorf("failed to build engine: %w", err)
		}
		defer cleanup()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		concurrency.SafeGo(func() {
			<-sigChan
			cancel()
		}, nil)
		defer signal.Stop(sigChan)

		result, err := engine.Run(ctx, router.Request{
			UserID:    userID,
			InputText: input,
			Seed:      seed,
		})

		out := struct {
			router.ExecutionLog
			DoseStats dose.Stats `json:"dose_stats"`
		}{
			ExecutionLog: result,
			DoseStats:    engine.DoseStats(userID, result.EndedAt),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return fmt.Errorf("failed to encode result: %w", encErr)
		}

		if err != nil {
			return fmt.Errorf("routed call ended in %s: %w", result.Verdict, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("input", "", "user input text to route")
	runCmd.Flags().String("user", "cli-user", "user id for sovereignty/dose tracking")
	runCmd.Flags().Int64("seed", 0, "mock backend determinism seed (ignored by real providers)")
}
