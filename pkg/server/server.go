package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/config"
	"github.com/doodlesbykumbi/docvault/pkg/documents"
	"github.com/doodlesbykumbi/docvault/pkg/ingestion"
	"github.com/doodlesbykumbi/docvault/pkg/processor"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/docvault/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/docvault/pkg/storage"
	"github.com/doodlesbykumbi/docvault/pkg/token"
	"github.com/doodlesbykumbi/docvault/pkg/users"
)

// Version is reported by GET /. Overridden at build time with -ldflags.
var Version = "0.1.0"

// Components are the services the endpoints call
type Components struct {
	Tokens      *token.Service
	Users       *users.Service
	Documents   *documents.Service
	Ingestion   *ingestion.Tracker
	HealthStore store.HealthStore
	Auditor     *audit.Auditor
}

type Server struct {
	Config *config.Config
	Router *mux.Router
	Logger *zap.Logger
	DB     *gorm.DB

	Tokens      *token.Service
	Users       *users.Service
	Documents   *documents.Service
	Ingestion   *ingestion.Tracker
	HealthStore store.HealthStore
	Auditor     *audit.Auditor

	srv *http.Server
}

// NewServer assembles a server from ready-made components. Routes are
// added separately with endpoints.RegisterAll.
func NewServer(cfg *config.Config, c Components, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         cfg.Addr(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	// The processor call runs inside the request, so the write deadline
	// has to outlast it.
	if d := cfg.ProcessorTimeoutDuration()*time.Duration(cfg.ProcessorRetries+1) + 5*time.Second; d > srv.WriteTimeout {
		srv.WriteTimeout = d
	}

	return &Server{
		Config:      cfg,
		Router:      router,
		Logger:      log,
		Tokens:      c.Tokens,
		Users:       c.Users,
		Documents:   c.Documents,
		Ingestion:   c.Ingestion,
		HealthStore: c.HealthStore,
		Auditor:     c.Auditor,
		srv:         srv,
	}
}

// New wires the GORM stores, services and processor client from cfg.
func New(cfg *config.Config, db *gorm.DB, content storage.Store, auditor *audit.Auditor, log *zap.Logger) (*Server, error) {
	tokens, err := token.NewService(cfg.TokenSecret, cfg.TokenLifetime())
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	docStore := gormstore.NewDocumentsStore(db)
	userService := users.NewService(gormstore.NewAccountsStore(db), cfg.BcryptCost)
	client := processor.NewClient(cfg.ProcessorURL, cfg.ProcessorTimeoutDuration(), cfg.ProcessorRetries)

	s := NewServer(cfg, Components{
		Tokens:      tokens,
		Users:       userService,
		Documents:   documents.NewService(docStore, userService, content, log),
		Ingestion:   ingestion.NewTracker(docStore, gormstore.NewIngestionsStore(db), client, log),
		HealthStore: gormstore.NewHealthStore(db),
		Auditor:     auditor,
	}, log)
	s.DB = db
	return s, nil
}

// Start serves until the server is shut down.
func (s *Server) Start() error {
	s.Logger.Info("listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
