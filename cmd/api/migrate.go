package main

import (
	"github.com/spf13/cobra"

	"github.com/flicky/toolstore/internal/config"
	"github.com/flicky/toolstore/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := repository.Migrate(cfg.DB.DSN()); err != nil {
				return err
			}
			log.Info("database migrated")
			return nil
		},
	}
}
