package main

import (
	"os"

	"gstinvoice/internal/config"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:          "gstinvoice",
		Short:        "GST tax invoice service",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			setupLogger(loaded)
			*cfg = *loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "directory containing config.yaml")

	root.AddCommand(
		newServeCmd(cfg),
		newWorkerCmd(cfg),
		newMigrateCmd(cfg),
	)
	return root
}
