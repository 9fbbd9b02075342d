// Package server provides the HTTP server for the docvault API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logs.
// Routes are registered by the endpoints subpackage, and bearer token
// checks live in the middleware subpackage.
//
// # Server Setup
//
//	srv, err := server.New(cfg, db, content, auditor, log)
//	if err != nil {
//	    return err
//	}
//	endpoints.RegisterAll(srv)
//	return srv.Start()
//
// # Components
//
// The Server struct holds:
//
//   - Config: the loaded configuration
//   - Router: HTTP request router
//   - Tokens: session token issuing and verification
//   - Users, Documents, Ingestion: the domain services
//   - HealthStore: database connectivity checks
//   - Auditor: audit event sink
package server
