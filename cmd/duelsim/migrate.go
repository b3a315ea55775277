package main

import (
	"github.com/spf13/cobra"

	"github.com/samdwyer/duelsim/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the postgres challenge store",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := app.cfg.Store.Database
		if err := store.RunMigrations(cmd.Context(), db.DSN()); err != nil {
			return err
		}
		app.logger.Info("migrations applied", "host", db.Host, "database", db.DBName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
