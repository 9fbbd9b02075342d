package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		wantErr  bool
	}{
		{"admin", RoleAdmin, false},
		{"editor", RoleEditor, false},
		{"viewer", RoleViewer, false},
		{"Admin", "", true},
		{"", "", true},
		{"superuser", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}
