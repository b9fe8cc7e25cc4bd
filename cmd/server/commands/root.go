package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/logger"
)

var (
	envFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Marketplace backend API",
	Long: `Marketplace backend: consumers, suppliers and admins trading products
through orders, with supplier teams, link requests and messaging.

Commands:
  serve    - Run the HTTP API
  migrate  - Create or update the database schema
  consume  - Run the order event consumer`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")
}

func newLogger(env, level string) (*zap.Logger, error) {
	if logLevel != "" {
		level = logLevel
	}
	return logger.New(env, level)
}
