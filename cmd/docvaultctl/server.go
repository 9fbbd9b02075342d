package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/config"
	"github.com/doodlesbykumbi/docvault/pkg/db"
	"github.com/doodlesbykumbi/docvault/pkg/logger"
	"github.com/doodlesbykumbi/docvault/pkg/server"
	"github.com/doodlesbykumbi/docvault/pkg/server/endpoints"
	"github.com/doodlesbykumbi/docvault/pkg/storage"
)

const shutdownTimeout = 30 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the docvault application server",
	Long: `Run the docvault application server.

The server requires DATABASE_URL and DOCVAULT_TOKEN_SECRET (or the matching
keys in docvault.yml). It refuses to start without a token secret.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Load and validate configuration first (fail fast)
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		log, err := logger.New(cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}

		if code := exitCode(log, runServer(cmd, cfg, log)); code != 0 {
			os.Exit(code)
		}
	},
}

// exitCode logs a server failure and flushes the logger, since os.Exit
// skips deferred calls.
func exitCode(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server failed", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 3000, "server listen port (overrides configuration)")
	serverCmd.Flags().StringP("bind-address", "b", "0.0.0.0", "server bind address (overrides configuration)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) error {
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		log.Info("running database migrations")
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return err
	}

	auditor, err := audit.Open(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = auditor.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	content, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}

	s, err := server.New(cfg, database, content, auditor, log)
	if err != nil {
		return err
	}
	endpoints.RegisterAll(s)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
