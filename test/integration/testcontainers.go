package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/config"
	"github.com/doodlesbykumbi/docvault/pkg/server"
	"github.com/doodlesbykumbi/docvault/pkg/server/endpoints"
	"github.com/doodlesbykumbi/docvault/pkg/storage"
)

const (
	tokenSecret = "integration-token-secret"
	serverPort  = 18080
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	HTTPClient    *http.Client
	Processor     *httptest.Server
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server

	// processorFails makes the stub processor answer 500 while set
	processorFails atomic.Bool
}

// NewTestContext starts PostgreSQL in a container, applies the migrations,
// starts a stub processor and a docvault server against both.
// Modes:
//   - Inline mode (default): the server runs in-process
//   - Binary mode: set DOCVAULT_BINARY to the path of a docvaultctl binary
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	binaryPath := os.Getenv("DOCVAULT_BINARY")
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("DOCVAULT_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("docvault_test"),
		tcpostgres.WithUsername("docvault"),
		tcpostgres.WithPassword("docvault"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tc := &TestContext{
		DB:          db,
		RawDB:       rawDB,
		Container:   pgContainer,
		ServerURL:   fmt.Sprintf("http://127.0.0.1:%d", serverPort),
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
	tc.Processor = httptest.NewServer(http.HandlerFunc(tc.serveProcessor))

	if binaryPath != "" {
		tc.ServerProcess, tc.Cancel, err = startBinary(binaryPath, connStr, tc.Processor.URL)
	} else {
		tc.InlineServer, tc.Cancel, err = startInlineServer(db, tc.Processor.URL)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

func (tc *TestContext) serveProcessor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if tc.processorFails.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"processor unavailable"}`))
		return
	}

	var req struct {
		DocumentID uint `json:"document_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "queued", "document_id": req.DocumentID})
}

// Reset empties every table between scenarios
func (tc *TestContext) Reset() error {
	tc.processorFails.Store(false)
	return tc.DB.Exec(`TRUNCATE ingestions, documents, accounts, audit_messages RESTART IDENTITY CASCADE`).Error
}

// startInlineServer starts the server in-process
func startInlineServer(db *gorm.DB, processorURL string) (*server.Server, context.CancelFunc, error) {
	cfg, err := config.LoadFrom(filepath.Join(os.TempDir(), "docvault-integration-missing.yml"))
	if err != nil {
		return nil, nil, err
	}
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = serverPort
	cfg.TokenSecret = tokenSecret
	cfg.ProcessorURL = processorURL
	cfg.ProcessorTimeout = 5
	cfg.EnforceRoles = true
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	auditor := audit.NewAuditor(true, audit.NewLogger(os.Stdout), nil, zap.NewNop())
	s, err := server.New(cfg, db, storage.Noop{}, auditor, zap.NewNop())
	if err != nil {
		return nil, nil, err
	}
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	cancel := func() {
		ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = s.Shutdown(ctx)
	}
	return s, cancel, nil
}

// startBinary starts the docvaultctl server binary
func startBinary(binaryPath, dbURL, processorURL string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since we already ran migrations in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", strconv.Itoa(serverPort))
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"DOCVAULT_TOKEN_SECRET="+tokenSecret,
		"DOCVAULT_PROCESSOR_URL="+processorURL,
		"DOCVAULT_PROCESSOR_TIMEOUT=5",
		"DOCVAULT_ENFORCE_ROLES=true",
		"DOCVAULT_CONFIG_PATH="+os.TempDir(),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, cancel, nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.Processor != nil {
		tc.Processor.Close()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations executes the up migrations in version order
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", filepath.Base(file), err)
		}
	}

	return nil
}
