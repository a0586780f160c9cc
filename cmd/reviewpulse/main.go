/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/review-pulse/internal/config"
	"github.com/example/review-pulse/internal/logger"
	"github.com/example/review-pulse/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reviewpulse",
		Short: "Extract Jira work history and generate a performance review summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg)
			issues, groups, err := runExtraction(cmd.Context(), cfg, log)
			if err != nil { return err }
			if len(issues) == 0 { return nil }
			return runSummarization(cmd.Context(), cfg, log, issues, groups)
		},
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(summarizeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Fetch, normalize, and group tracker issues for the configured date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg)
			_, _, err := runExtraction(cmd.Context(), cfg, log)
			return err
		},
	}
}

func summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Generate review summaries from previously extracted data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg)
			issues, groups, err := store.New(cfg, log).LoadNormalized()
			if err != nil { return err }
			log.Info().Int("issues", len(issues)).Int("features", len(groups)).Msg("loaded extracted data")
			return runSummarization(cmd.Context(), cfg, log, issues, groups)
		},
	}
}
