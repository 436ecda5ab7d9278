package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"schedsim/internal/core"
	"schedsim/internal/engine"
	"schedsim/internal/export"
	"schedsim/internal/metrics"
	"schedsim/internal/scenario"
	"schedsim/internal/schedulers"
	"schedsim/internal/store"
)

func newRunCmd() *cobra.Command {
	var (
		algorithm string
		quantum   int
		csvPath   string
		dbPath    string
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "run <scenario-file>",
		Short: "Simulate a scenario file and print the schedule",
		Long: `Run loads a YAML scenario (process set + policy config), simulates
it, and prints the Gantt timeline and the metrics table. The scenario's
algorithm can be overridden with --algorithm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if algorithm != "" {
				sc.Algorithm = schedulers.Algorithm(algorithm)
			}
			if quantum > 0 {
				sc.Config.Quantum = quantum
			}
			fillConfigDefaults(&sc.Config)

			reg, err := sc.Registry()
			if err != nil {
				return err
			}
			pol, err := schedulers.New(sc.Algorithm, sc.Config)
			if err != nil {
				return err
			}
			res, err := engine.Simulate(cmd.Context(), reg, pol)
			if err != nil {
				return err
			}
			rec, err := metrics.Compute(reg, res.Segments)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printGantt(out, res.Segments)
			printSchedule(out, rec)

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("create csv: %w", err)
				}
				defer f.Close()
				if err := export.WriteCSV(f, rec); err != nil {
					return err
				}
				logger.Info("exported metrics", "path", csvPath)
			}

			if save {
				st, err := store.Open(dbPath, logger)
				if err != nil {
					return err
				}
				defer st.Close()
				procs := make([]core.Process, 0, reg.Len())
				for _, p := range reg.Processes() {
					procs = append(procs, *p)
				}
				id, err := st.SaveRun(cmd.Context(), &store.Run{
					Algorithm: res.Algorithm,
					Processes: procs,
					Segments:  res.Segments,
					Metrics:   rec,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "saved run %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Override the scenario's algorithm")
	cmd.Flags().IntVarP(&quantum, "quantum", "q", 0, "Override the round-robin quantum")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Export the metrics record as CSV to this path")
	cmd.Flags().StringVar(&dbPath, "db", "schedsim.db", "Run history database path")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the run in the history database")
	return cmd
}

// fillConfigDefaults backfills unset policy parameters so minimal
// scenario files work out of the box.
func fillConfigDefaults(cfg *schedulers.Config) {
	def := schedulers.DefaultConfig()
	if cfg.Quantum == 0 {
		cfg.Quantum = def.Quantum
	}
	if len(cfg.MLFQQuantums) == 0 {
		cfg.MLFQQuantums = def.MLFQQuantums
	}
	if cfg.Weights == (schedulers.Weights{}) {
		cfg.Weights = def.Weights
	}
	if cfg.StarvationThreshold == 0 {
		cfg.StarvationThreshold = def.StarvationThreshold
	}
}
