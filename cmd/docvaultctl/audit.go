package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/config"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect persisted audit messages",
	Long:  `Inspect audit messages persisted to the audit database (AUDIT_DATABASE_URL).`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'audit' requires a subcommand (recent)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent audit messages",
	Long: `Show the most recent audit messages, newest first.

Example:
  docvaultctl audit recent
  docvaultctl audit recent --limit 100 --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")

		if err := showRecentAudit(limit, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read audit messages: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditRecentCmd)
	auditRecentCmd.Flags().IntP("limit", "n", 20, "Number of messages to show")
	auditRecentCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showRecentAudit(limit int, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.AuditDatabaseURL == "" {
		return fmt.Errorf("AUDIT_DATABASE_URL is not configured")
	}

	store, err := audit.NewStore(cfg.AuditDatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	messages, err := store.Recent(limit)
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}

	for _, m := range messages {
		fmt.Printf("%s %-9s %s\n", m.Timestamp.Format(time.RFC3339), m.Msgid, m.Message)
	}
	return nil
}
