package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server"
)

// RegisterUserEndpoints registers account management under /user
func RegisterUserEndpoints(s *server.Server) {
	router := authenticated(s, "/user")

	router.Handle("/create", gated(s, handleCreateUser(s), model.RoleAdmin)).Methods("POST")
	router.HandleFunc("/{username}", handleGetUser(s)).Methods("GET")
	router.Handle("/{id}/role", gated(s, handleUpdateUserRole(s), model.RoleAdmin)).Methods("PUT")
	router.Handle("/{id}", gated(s, handleDeleteUser(s), model.RoleAdmin)).Methods("DELETE")
}

func handleCreateUser(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, clientIP := caller(r)

		var req AccountRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		account, err := s.Users.Register(req.Username, req.Password, model.Role(req.Role))
		s.Auditor.Log(audit.AccountEvent{
			UserID:       username,
			ClientIP:     clientIP,
			Account:      req.Username,
			Operation:    "create",
			Role:         req.Role,
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusCreated, account)
	}
}

func handleGetUser(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.Users.FindByUsername(mux.Vars(r)["username"])
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}
		if account == nil {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}

		respondWithJSON(w, http.StatusOK, account)
	}
}

func handleUpdateUserRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, clientIP := caller(r)

		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		var req UpdateRoleRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		account, err := s.Users.UpdateRole(id, model.Role(req.Role))
		s.Auditor.Log(audit.AccountEvent{
			UserID:       username,
			ClientIP:     clientIP,
			Account:      strconv.FormatUint(uint64(id), 10),
			Operation:    "update-role",
			Role:         req.Role,
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusOK, account)
	}
}

func handleDeleteUser(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, clientIP := caller(r)

		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		err = s.Users.Delete(id)
		s.Auditor.Log(audit.AccountEvent{
			UserID:       username,
			ClientIP:     clientIP,
			Account:      strconv.FormatUint(uint64(id), 10),
			Operation:    "delete",
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
	}
}
