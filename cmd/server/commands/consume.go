package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/config"
	"github.com/iliyamo/marketplace-backend/internal/queue"
)

// consumeCmd appends order events from the broker to the event log
var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the order event consumer",
	RunE: func(cmd *cobra.Command, args []string) error {
		events := config.LoadEventsConfig()
		log, err := newLogger(os.Getenv("APP_ENV"), envOr("LOG_LEVEL", "info"))
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("consuming", zap.String("queue", queue.OrderEventsQueue), zap.String("log_path", events.LogPath))
		err = queue.NewConsumer(events.URL, events.LogPath, log).Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
