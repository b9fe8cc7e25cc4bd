package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/app"
	"github.com/iliyamo/marketplace-backend/internal/config"
	"github.com/iliyamo/marketplace-backend/internal/database"
)

var autoMigrate bool

// serveCmd runs the HTTP API until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log, err := newLogger(cfg.Env, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if autoMigrate {
			db, err := database.Open(app.DBOptions(cfg), log)
			if err != nil {
				return err
			}
			err = database.Migrate(db)
			if sqlDB, e := db.DB(); e == nil {
				_ = sqlDB.Close()
			}
			if err != nil {
				return err
			}
			log.Info("schema migrated")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := app.Serve(ctx, cfg, log); err != nil {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Migrate the schema before serving")
	rootCmd.AddCommand(serveCmd)
}
