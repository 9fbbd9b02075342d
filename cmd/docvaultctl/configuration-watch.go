package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/docvault/pkg/config"
)

// configurationWatchCmd represents the configuration watch command
var configurationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the config file and print the configuration when it changes",
	Long: `Watch the config file and print the configuration each time it changes.

Invalid configurations are reported but do not stop the watch. Use this to
check edits to docvault.yml before restarting the server.

Example:
  docvaultctl configuration watch
  docvaultctl configuration watch --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := watchConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationWatchCmd)
	configurationWatchCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func watchConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	path := cfg.ConfigFilePath()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for changes\n", path)

	return config.Watch(ctx, path, func(cfg *config.Config, err error) {
		fmt.Printf("[%s] Config file changed\n", time.Now().Format(time.RFC3339))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		}
		if err := printConfiguration(cfg, output); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing configuration: %v\n", err)
		}
	})
}
