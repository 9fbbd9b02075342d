package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// userDeleteCmd represents the user delete command
var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account and everything it owns",
	Long: `Delete an account together with its documents and their ingestion records.

WARNING: This operation is irreversible.

Example:
  docvaultctl user delete 2
  docvaultctl user delete 2 --force`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid account id: %s\n", args[0])
			os.Exit(1)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete account %d with all of its documents? [y/N] ", id)
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted")
				return
			}
		}

		svc, err := openUsers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}

		if err := svc.Delete(uint(id)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete account: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Deleted account %d\n", id)
	},
}

func init() {
	userCmd.AddCommand(userDeleteCmd)
	userDeleteCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
