package identity

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/token"
)

func TestFromClaims(t *testing.T) {
	iat := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	claims := &token.Claims{
		Username: "alice",
		UserID:   7,
		Role:     model.RoleEditor,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(time.Hour)),
		},
	}

	id := FromClaims(claims)
	assert.Equal(t, uint(7), id.UserID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, model.RoleEditor, id.Role)
	assert.True(t, id.IssuedAt.Equal(iat))
	assert.True(t, id.ExpiresAt.Equal(iat.Add(time.Hour)))
}

func TestIdentity_HasRole(t *testing.T) {
	id := &Identity{Role: model.RoleEditor}

	assert.True(t, id.HasRole(model.RoleAdmin, model.RoleEditor))
	assert.False(t, id.HasRole(model.RoleAdmin))
	assert.False(t, id.HasRole())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "remote addr", remoteAddr: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "forwarded wins", remoteAddr: "10.0.0.1:5555", forwarded: "203.0.113.9, 10.0.0.2", want: "203.0.113.9"},
		{name: "bad forwarded falls back", remoteAddr: "10.0.0.1:5555", forwarded: "garbage", want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(r).String())
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	id := (&Identity{UserID: 1, Username: "alice"}).WithRemoteIP(net.ParseIP("192.168.1.1"))

	ctx := Set(context.Background(), id)
	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Same(t, id, got)

	_, ok = Get(context.Background())
	assert.False(t, ok)
}
