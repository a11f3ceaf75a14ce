package main

import (
	"gstinvoice/internal/config"
	"gstinvoice/pkg/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and seed the default shop",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrateAndSeed(ctx, cfg, pool); err != nil {
				return err
			}
			log.Info().Int("statements", len(database.Migrations)).Msg("Migrations applied")
			return nil
		},
	}
}
