package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server"
	"github.com/doodlesbykumbi/docvault/pkg/server/middleware"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterUserEndpoints(srv)
	RegisterDocumentEndpoints(srv)
	RegisterIngestionEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
}

// authenticated returns a subrouter for prefix whose routes require a
// bearer token.
func authenticated(s *server.Server, prefix string) *mux.Router {
	jwtMiddleware := middleware.NewJWTAuthenticator(s.Tokens)

	router := s.Router.PathPrefix(prefix).Subrouter()
	router.Use(jwtMiddleware.Middleware)
	return router
}

// gated wraps h with the role check configured for the server
func gated(s *server.Server, h http.HandlerFunc, roles ...model.Role) http.Handler {
	return middleware.RequireRole(s.Config.EnforceRoles, roles...)(h)
}
