package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/ingestion"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server"
)

// IngestionErrorResponse is returned when the processor call fails. The
// failed record is included so callers can follow it up.
type IngestionErrorResponse struct {
	Error     string           `json:"error"`
	Ingestion *model.Ingestion `json:"ingestion"`
}

// RegisterIngestionEndpoints registers the ingestion trigger and lookup
func RegisterIngestionEndpoints(s *server.Server) {
	router := authenticated(s, "/ingestion")

	router.Handle("/trigger", gated(s, handleTriggerIngestion(s), writerRoles...)).Methods("POST")
	router.HandleFunc("/{id}", handleGetIngestion(s)).Methods("GET")
}

func handleTriggerIngestion(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, clientIP := caller(r)

		var req TriggerIngestionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		outcome, err := s.Ingestion.Trigger(r.Context(), req.DocumentID)

		event := audit.IngestionEvent{
			UserID:       username,
			ClientIP:     clientIP,
			DocumentID:   strconv.FormatUint(uint64(req.DocumentID), 10),
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		}
		var failed *ingestion.FailedError
		switch {
		case outcome != nil:
			event.IngestionID = strconv.FormatUint(uint64(outcome.Ingestion.ID), 10)
		case errors.As(err, &failed):
			event.IngestionID = strconv.FormatUint(uint64(failed.Ingestion.ID), 10)
		}
		s.Auditor.Log(event)

		if failed != nil {
			respondWithJSON(w, http.StatusBadGateway, IngestionErrorResponse{
				Error:     "Error triggering ingestion",
				Ingestion: failed.Ingestion,
			})
			return
		}
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusOK, outcome)
	}
}

func handleGetIngestion(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		rec, err := s.Ingestion.Get(id)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, rec)
	}
}
