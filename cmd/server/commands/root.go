package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reservations",
	Short: "Restaurant table reservation API",
	Long: `reservations runs the restaurant table reservation service.

Commands:
  serve         - Start the HTTP API and the table status scheduler
  worker        - Consume reservation events and notify customers
  migrate       - Create the schema and seed time slots and configuration
  create-admin  - Create an administrator account

Configuration is read from environment variables (optionally from .env).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger shared by every
// command.
func bootstrap() (config.Config, *logrus.Logger) {
	cfg := config.Load()
	return cfg, utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

func dbOptions(cfg config.Config) database.Options {
	return database.Options{
		User:  cfg.DBUser,
		Pass:  cfg.DBPass,
		Host:  cfg.DBHost,
		Port:  cfg.DBPort,
		Name:  cfg.DBName,
		TLSCA: cfg.DBTLSCA,
	}
}
