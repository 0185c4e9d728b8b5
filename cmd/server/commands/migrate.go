package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservation/internal/database"
)

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and seed default data",
	Long: `Create missing tables and seed the default time slots
(12:00-15:00 and 19:00-23:00, hourly) and the restaurant profile row.
Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := bootstrap()
		db, err := database.Open(dbOptions(cfg))
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
