package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"schedsim/internal/store"
)

func newHistoryCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored simulation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "schedsim.db", "Run history database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func printHistory(w io.Writer, runs []*store.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Algorithm", "Created", "Processes", "Avg Wait", "Avg Turnaround"})
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			string(r.Algorithm),
			r.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(len(r.Processes)),
			strconv.FormatFloat(r.Metrics.AvgWaitingTime, 'f', 2, 64),
			strconv.FormatFloat(r.Metrics.AvgTurnaroundTime, 'f', 2, 64),
		})
	}
	table.Render()
}
