package commands

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/marketplace-backend/internal/app"
	"github.com/iliyamo/marketplace-backend/internal/config"
	"github.com/iliyamo/marketplace-backend/internal/database"
)

// migrateCmd creates or alters every table
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log, err := newLogger(cfg.Env, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.Open(app.DBOptions(cfg), log)
		if err != nil {
			return err
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("schema migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
