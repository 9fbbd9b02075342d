// Package errs defines the error kinds shared by the docvault services.
//
// Each kind is a sentinel error. Lower layers wrap a kind with context using
// fmt.Errorf and %w, and the HTTP layer maps kinds to status codes with
// errors.Is:
//
//	if errors.Is(err, errs.ErrNotFound) {
//	    // 404
//	}
package errs

import "errors"

var (
	// ErrConflict reports a uniqueness violation, such as a duplicate username.
	ErrConflict = errors.New("conflict")

	// ErrNotFound reports that a referenced account, document or ingestion
	// record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuth reports invalid credentials or an invalid, malformed or expired token.
	ErrAuth = errors.New("authentication failed")

	// ErrIngestion reports that the external processor call failed. The failed
	// ingestion record has already been persisted when this is returned.
	ErrIngestion = errors.New("ingestion failed")

	// ErrValidation reports a malformed request or an unknown enumerated value.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden reports that an authenticated caller lacks the role for an operation.
	ErrForbidden = errors.New("forbidden")
)

// Kind returns the sentinel kind wrapped by err, or nil when err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrConflict, ErrNotFound, ErrAuth, ErrIngestion, ErrValidation, ErrForbidden} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
