package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"schedsim/api"
	"schedsim/config"
	"schedsim/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DBPath, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			app := api.NewApp(cfg, st, logger)
			logger.Info("server listening", "port", cfg.Port)
			return app.Listen(fmt.Sprintf(":%d", cfg.Port))
		},
	}
	return cmd
}
