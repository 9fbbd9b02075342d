package endpoints

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/docvault/pkg/config"
	"github.com/doodlesbykumbi/docvault/pkg/documents"
	"github.com/doodlesbykumbi/docvault/pkg/ingestion"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/processor"
	"github.com/doodlesbykumbi/docvault/pkg/server"
	"github.com/doodlesbykumbi/docvault/pkg/server/store/mocks"
	"github.com/doodlesbykumbi/docvault/pkg/storage"
	"github.com/doodlesbykumbi/docvault/pkg/token"
	"github.com/doodlesbykumbi/docvault/pkg/users"
)

const testSecret = "test-signing-secret"

type testEnv struct {
	server     *server.Server
	tokens     *token.Service
	accounts   *mocks.AccountsStore
	docs       *mocks.DocumentsStore
	ingestions *mocks.IngestionsStore
	health     *mocks.HealthStore
}

type envOptions struct {
	enforceRoles bool
	processorURL string
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	tokens, err := token.NewService(testSecret, time.Hour)
	require.NoError(t, err)

	if opts.processorURL == "" {
		opts.processorURL = "http://127.0.0.1:1/trigger"
	}

	cfg := &config.Config{
		BindAddress:      "127.0.0.1",
		Port:             0,
		EnforceRoles:     opts.enforceRoles,
		ProcessorURL:     opts.processorURL,
		ProcessorTimeout: 5,
	}

	env := &testEnv{
		tokens:     tokens,
		accounts:   new(mocks.AccountsStore),
		docs:       new(mocks.DocumentsStore),
		ingestions: new(mocks.IngestionsStore),
		health:     new(mocks.HealthStore),
	}

	log := zap.NewNop()
	userService := users.NewService(env.accounts, bcrypt.MinCost)
	client := processor.NewClient(cfg.ProcessorURL, cfg.ProcessorTimeoutDuration(), 0)

	env.server = server.NewServer(cfg, server.Components{
		Tokens:      tokens,
		Users:       userService,
		Documents:   documents.NewService(env.docs, userService, storage.Noop{}, log),
		Ingestion:   ingestion.NewTracker(env.docs, env.ingestions, client, log),
		HealthStore: env.health,
	}, log)
	RegisterAll(env.server)

	return env
}

// tokenFor issues a bearer token for a user with role
func (e *testEnv) tokenFor(t *testing.T, id uint, username string, role model.Role) string {
	t.Helper()
	tok, err := e.tokens.Issue(&model.Account{ID: id, Username: username, Role: role})
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	e.server.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) assertExpectations(t *testing.T) {
	e.accounts.AssertExpectations(t)
	e.docs.AssertExpectations(t)
	e.ingestions.AssertExpectations(t)
	e.health.AssertExpectations(t)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// processorStub serves the external processor with a fixed status and body
func processorStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
