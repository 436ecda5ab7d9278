package cli

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"schedsim/internal/scenario"
	"schedsim/internal/schedulers"
)

func newGenerateCmd() *cobra.Command {
	var (
		count     int
		seed      int64
		algorithm string
	)

	cmd := &cobra.Command{
		Use:   "generate <output-file>",
		Short: "Generate a random scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("process count %d must be > 0", count)
			}
			rng := rand.New(rand.NewSource(seed))
			sc := &scenario.Scenario{
				Algorithm: schedulers.Algorithm(algorithm),
				Config:    schedulers.DefaultConfig(),
				Processes: scenario.Random(count, rng),
			}
			if err := scenario.Save(args[0], sc); err != nil {
				return err
			}
			logger.Info("scenario written", "path", args[0], "processes", count, "seed", seed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of processes to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed (same seed, same scenario)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(schedulers.FCFS), "Algorithm to set in the scenario")
	return cmd
}
