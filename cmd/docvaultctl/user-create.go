package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doodlesbykumbi/docvault/pkg/model"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an account",
	Long: `Create an account with a hashed password.

The password is read from the terminal without echo. When stdin is not a
terminal the first line of stdin is used instead.

Example:
  docvaultctl user create alice --role admin
  echo "s3cret" | docvaultctl user create bob --role viewer`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		roleName, _ := cmd.Flags().GetString("role")
		role, err := model.ParseRole(roleName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid role: %v\n", err)
			os.Exit(1)
		}

		password, err := readPassword(os.Stdin, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read password: %v\n", err)
			os.Exit(1)
		}

		svc, err := openUsers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}

		account, err := svc.Register(args[0], password, role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create account: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Created account '%s' (id %d, role %s)\n", account.Username, account.ID, account.Role)
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringP("role", "r", string(model.RoleViewer), "Account role (admin, editor or viewer)")
}

// readPassword prompts for a password on a terminal, or reads one line when
// in is not a terminal.
func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(prompt, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
