package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		input   string
		want    RoleName
		wantErr bool
	}{
		{"OWNER", RoleOwner, false},
		{"owner", RoleOwner, false},
		{" Developer ", RoleDeveloper, false},
		{"VIEWER", RoleViewer, false},
		{"ADMIN", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRoleName(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrRoleNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleName_IsValid(t *testing.T) {
	assert.True(t, RoleOwner.IsValid())
	assert.True(t, RoleDeveloper.IsValid())
	assert.True(t, RoleViewer.IsValid())
	assert.False(t, RoleName("MAINTAINER").IsValid())
}
