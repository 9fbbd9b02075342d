package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server"
)

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterAuthEndpoints registers registration and login. Neither requires
// a token.
func RegisterAuthEndpoints(s *server.Server) {
	s.Router.HandleFunc("/auth/register", handleRegister(s)).Methods("POST")
	s.Router.HandleFunc("/auth/login", handleLogin(s)).Methods("POST")
}

func handleRegister(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, clientIP := caller(r)

		var req AccountRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		account, err := s.Users.Register(req.Username, req.Password, model.Role(req.Role))
		s.Auditor.Log(audit.AuthnEvent{
			Username:     req.Username,
			ClientIP:     clientIP,
			Operation:    "register",
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		s.Logger.Info("account registered", zap.String("username", account.Username), zap.Uint("account_id", account.ID))
		respondWithJSON(w, http.StatusCreated, account)
	}
}

func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, clientIP := caller(r)

		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		account, err := s.Users.ValidateCredentials(req.Username, req.Password)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}
		if account == nil {
			s.Auditor.Log(audit.AuthnEvent{
				Username:     req.Username,
				ClientIP:     clientIP,
				Operation:    "login",
				ErrorMessage: "invalid credentials",
			})
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}

		accessToken, err := s.Tokens.Issue(account)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		s.Auditor.Log(audit.AuthnEvent{
			Username:  account.Username,
			ClientIP:  clientIP,
			Operation: "login",
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, LoginResponse{AccessToken: accessToken})
	}
}
