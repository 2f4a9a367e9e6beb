package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input   string
		want    Operation
		wantErr bool
	}{
		{"view", OperationView, false},
		{"UPDATE", OperationUpdate, false},
		{" delete ", OperationDelete, false},
		{"Publish", OperationPublish, false},
		{"execute", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOperation(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownOperation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOwnerKind(t *testing.T) {
	kind, err := ParseOwnerKind("user")
	require.NoError(t, err)
	assert.Equal(t, OwnerKindUser, kind)

	kind, err = ParseOwnerKind("GROUP")
	require.NoError(t, err)
	assert.Equal(t, OwnerKindGroup, kind)

	_, err = ParseOwnerKind("TEAM")
	assert.ErrorIs(t, err, ErrUnknownOwnerKind)
}

func TestParseApprovalStatus(t *testing.T) {
	status, err := ParseApprovalStatus("APPROVED")
	require.NoError(t, err)
	assert.Equal(t, ApprovalStatusApproved, status)

	_, err = ParseApprovalStatus("cancelled")
	assert.ErrorIs(t, err, ErrUnknownApprovalStatus)
}

func TestApprovalStatus_IsTerminal(t *testing.T) {
	assert.False(t, ApprovalStatusPending.IsTerminal())
	assert.True(t, ApprovalStatusApproved.IsTerminal())
	assert.True(t, ApprovalStatusRejected.IsTerminal())
}

func TestDecision(t *testing.T) {
	allowed := Allowed()
	assert.True(t, allowed.IsAllowed())
	assert.False(t, allowed.IsDenied())
	assert.NoError(t, allowed.Reason)

	denied := Denied(ErrNotOwner)
	assert.True(t, denied.IsDenied())
	assert.ErrorIs(t, denied.Reason, ErrNotOwner)

	pending := NeedsApproval()
	assert.True(t, pending.NeedsApproval())
	assert.False(t, pending.IsAllowed())
}
