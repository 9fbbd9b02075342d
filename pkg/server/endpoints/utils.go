package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/identity"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// statusFor maps an error kind to an HTTP status code
func statusFor(err error) int {
	switch errs.Kind(err) {
	case errs.ErrValidation:
		return http.StatusBadRequest
	case errs.ErrAuth:
		return http.StatusUnauthorized
	case errs.ErrForbidden:
		return http.StatusForbidden
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrConflict:
		return http.StatusConflict
	case errs.ErrIngestion:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes err with the status of its kind. Errors of
// no known kind are logged and reported without detail.
func respondWithServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		respondWithError(w, code, "internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}

// decodeJSON reads the request body into dst and runs its validation.
func decodeJSON(r *http.Request, dst validator) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required: %w", errs.ErrValidation)
		}
		return fmt.Errorf("malformed request body: %w", errs.ErrValidation)
	}
	return dst.Validate()
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, errs.ErrValidation)
	}
	return uint(id), nil
}

// caller returns the username and client IP of the request for audit events
func caller(r *http.Request) (string, string) {
	ip := identity.ClientIP(r)
	ipStr := ""
	if ip != nil {
		ipStr = ip.String()
	}
	if id, ok := identity.Get(r.Context()); ok {
		return id.Username, ipStr
	}
	return "anonymous", ipStr
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
