package middleware

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/doodlesbykumbi/docvault/pkg/identity"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/token"
)

var bearerRegex = regexp.MustCompile(`^Bearer\s+(\S+)\s*$`)

// JWTAuthenticator is middleware that validates bearer tokens
type JWTAuthenticator struct {
	Tokens *token.Service
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(tokens *token.Service) *JWTAuthenticator {
	return &JWTAuthenticator{Tokens: tokens}
}

// Middleware verifies the bearer token and stores the caller's Identity in
// the request context.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			unauthorized(w, "Authorization missing")
			return
		}

		matches := bearerRegex.FindStringSubmatch(authHeader)
		if len(matches) != 2 {
			unauthorized(w, "Malformed authorization header")
			return
		}

		claims, err := j.Tokens.Verify(matches[1])
		if err != nil {
			switch {
			case errors.Is(err, token.ErrTokenExpired):
				unauthorized(w, "Token expired")
			case errors.Is(err, token.ErrInvalidSignature):
				unauthorized(w, "Invalid signature")
			default:
				unauthorized(w, "Malformed authorization token")
			}
			return
		}

		id := identity.FromClaims(claims).WithRemoteIP(identity.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="docvault"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(msg))
}

// RequireRole rejects callers whose role is not in roles with 403. It is a
// pass-through when enforce is false. It must run after Middleware.
func RequireRole(enforce bool, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enforce {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok {
				unauthorized(w, "Authorization missing")
				return
			}
			if !id.HasRole(roles...) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("Insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
