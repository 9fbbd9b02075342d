package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docvaultctl",
	Short: "Run and administer the docvault server",
	Long: `Run and administer the docvault document management server.

A .env file in the working directory, if present, is loaded before any
command runs. Variables already set in the environment take precedence.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", envFile, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file to load before running")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
