package endpoints

import (
	"net/http"
	"time"

	"github.com/doodlesbykumbi/docvault/pkg/identity"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	authenticated(s, "/whoami").HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unable to determine identity")
			return
		}

		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			ID:        id.UserID,
			Username:  id.Username,
			Role:      id.Role,
			IssuedAt:  id.IssuedAt,
			ExpiresAt: id.ExpiresAt,
		})
	}
}
