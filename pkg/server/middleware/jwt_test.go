package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/docvault/pkg/identity"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/token"
)

func newTokens(t *testing.T, secret string, opts ...token.Option) *token.Service {
	s, err := token.NewService(secret, time.Hour, opts...)
	require.NoError(t, err)
	return s
}

// echoIdentity writes the username of the identity found in the context
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.Get(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(id.Username))
})

func TestJWTAuthenticator_Middleware(t *testing.T) {
	tokens := newTokens(t, "secret")
	alice := &model.Account{ID: 1, Username: "alice", Role: model.RoleAdmin}

	valid, err := tokens.Issue(alice)
	require.NoError(t, err)

	otherSigner := newTokens(t, "other-secret")
	forged, err := otherSigner.Issue(alice)
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	expiredSigner := newTokens(t, "secret", token.WithClock(func() time.Time { return past }))
	expired, err := expiredSigner.Issue(alice)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "Authorization missing"},
		{name: "wrong scheme", header: "Token token=\"abc\"", wantStatus: http.StatusUnauthorized, wantBody: "Malformed authorization header"},
		{name: "garbage token", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantBody: "Malformed authorization token"},
		{name: "wrong secret", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized, wantBody: "Invalid signature"},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantBody: "Token expired"},
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: "alice"},
	}

	handler := NewJWTAuthenticator(tokens).Middleware(echoIdentity)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	withRole := func(role model.Role) *http.Request {
		req := httptest.NewRequest("POST", "/user/create", nil)
		return req.WithContext(identity.Set(req.Context(), &identity.Identity{Username: "u", Role: role}))
	}

	t.Run("not enforced passes everyone", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireRole(false, model.RoleAdmin)(echoIdentity).ServeHTTP(w, withRole(model.RoleViewer))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("enforced allows listed role", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireRole(true, model.RoleAdmin, model.RoleEditor)(echoIdentity).ServeHTTP(w, withRole(model.RoleEditor))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("enforced rejects other roles", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireRole(true, model.RoleAdmin)(echoIdentity).ServeHTTP(w, withRole(model.RoleViewer))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("enforced without identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireRole(true, model.RoleAdmin)(echoIdentity).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
