// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Command marqueectl builds and inspects catalog artifacts and runs
// recommendations and classifier diagnostics from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/logging"
)

const rootLongDesc = `marqueectl manages Marquee catalog artifacts.

  marqueectl build      Build a catalog from MovieLens CSV files
  marqueectl inspect    Show the genres of a catalog
  marqueectl recommend  Run a recommendation against a catalog
  marqueectl classify   Show raw classifier scores for a description`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "marqueectl",
		Short:         "Marquee catalog and recommendation tool",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console"})
		},
	}

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newRecommendCmd())
	cmd.AddCommand(newClassifyCmd())

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Err(err).Msg("marqueectl failed")
		os.Exit(1)
	}
}
