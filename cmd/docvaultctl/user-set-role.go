package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/docvault/pkg/model"
)

// userSetRoleCmd represents the user set-role command
var userSetRoleCmd = &cobra.Command{
	Use:   "set-role <id> <role>",
	Short: "Change the role of an account",
	Long: `Change the role of an account.

Example:
  docvaultctl user set-role 2 editor`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid account id: %s\n", args[0])
			os.Exit(1)
		}
		role, err := model.ParseRole(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid role: %v\n", err)
			os.Exit(1)
		}

		svc, err := openUsers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}

		account, err := svc.UpdateRole(uint(id), role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to update role: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Account '%s' now has role %s\n", account.Username, account.Role)
	},
}

func init() {
	userCmd.AddCommand(userSetRoleCmd)
}
