package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/docvault/pkg/config"
	"github.com/doodlesbykumbi/docvault/pkg/db"
	gormstore "github.com/doodlesbykumbi/docvault/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/docvault/pkg/users"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage docvault accounts",
	Long:  `Create accounts, change their roles and delete them directly in the database.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, set-role, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}

// openUsers connects to the configured database and returns the account
// service over it.
func openUsers() (*users.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}

	return users.NewService(gormstore.NewAccountsStore(database), cfg.BcryptCost), nil
}
