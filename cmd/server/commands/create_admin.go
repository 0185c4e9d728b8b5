package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

var (
	adminEmail     string
	adminPassword  string
	adminFirstName string
	adminLastName  string
	adminPhone     string
)

// createAdminCmd creates an administrator.  Registration through the API
// only ever creates customers.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return errors.New("--email and --password are required")
		}
		cfg, log := bootstrap()
		db, err := database.Open(dbOptions(cfg))
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		id, err := repository.NewUserRepo(db).Create(ctx, model.User{
			FirstName: adminFirstName,
			LastName:  adminLastName,
			Phone:     adminPhone,
			Email:     adminEmail,
			Role:      model.RoleAdmin,
		}, adminPassword, cfg.BcryptCost)
		if errors.Is(err, repository.ErrEmailExists) {
			return fmt.Errorf("a user with email %s already exists", adminEmail)
		}
		if err != nil {
			return err
		}
		log.WithField("user_id", id).Info("administrator created")
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminEmail, "email", "", "Administrator email (required)")
	f.StringVar(&adminPassword, "password", "", "Administrator password (required)")
	f.StringVar(&adminFirstName, "first-name", "Admin", "First name")
	f.StringVar(&adminLastName, "last-name", "Restaurante", "Last name")
	f.StringVar(&adminPhone, "phone", "", "Contact phone")
	rootCmd.AddCommand(createAdminCmd)
}
