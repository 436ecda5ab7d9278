// Package cli implements the schedsim command line interface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"schedsim/internal/logging"
)

var (
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the schedsim CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedsim",
		Short: "schedsim — CPU scheduling policy simulator",
		Long: `schedsim simulates CPU scheduling policies (FCFS, SJF, SRTF, round
robin, priority, MLFQ, and a composite heuristic) over a user-defined
process set and reports the resulting timeline and metrics.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newGenerateCmd(),
		newHistoryCmd(),
		newServeCmd(),
	)
	return root
}
