// Package domain defines the entitlement domain models: resources bound to an
// owner, operations subject to authorization, access decisions, and the
// operation approval state machine.
package domain

import "strings"

// Operation is one of the closed set of actions subject to authorization.
// External text is parsed once at the boundary; downstream code works with the
// typed value only.
type Operation string

const (
	// OperationView reads a resource.
	OperationView Operation = "view"

	// OperationUpdate mutates a resource.
	OperationUpdate Operation = "update"

	// OperationDelete removes a resource. Approval-gated for developers.
	OperationDelete Operation = "delete"

	// OperationPublish promotes a resource. Approval-gated for developers.
	OperationPublish Operation = "publish"
)

// IsValid reports whether the operation is part of the recognized set.
func (o Operation) IsValid() bool {
	switch o {
	case OperationView, OperationUpdate, OperationDelete, OperationPublish:
		return true
	}
	return false
}

// String returns the operation as a string.
func (o Operation) String() string {
	return string(o)
}

// ParseOperation converts external text into an Operation, case-insensitively.
// Returns ErrUnknownOperation for anything outside the recognized set.
func ParseOperation(value string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(value)))
	if !op.IsValid() {
		return "", ErrUnknownOperation
	}
	return op, nil
}

// OwnerKind discriminates whether a resource's owner is a user or a group.
type OwnerKind string

const (
	// OwnerKindUser marks a resource owned by an individual user.
	OwnerKindUser OwnerKind = "USER"

	// OwnerKindGroup marks a resource owned by a group.
	OwnerKindGroup OwnerKind = "GROUP"
)

// IsValid reports whether the owner kind is recognized.
func (k OwnerKind) IsValid() bool {
	return k == OwnerKindUser || k == OwnerKindGroup
}

// String returns the owner kind as a string.
func (k OwnerKind) String() string {
	return string(k)
}

// ParseOwnerKind converts external text into an OwnerKind, case-insensitively.
func ParseOwnerKind(value string) (OwnerKind, error) {
	kind := OwnerKind(strings.ToUpper(strings.TrimSpace(value)))
	if !kind.IsValid() {
		return "", ErrUnknownOwnerKind
	}
	return kind, nil
}

// ApprovalStatus is the state of an approval request.
// Transitions are pending -> approved or pending -> rejected only.
type ApprovalStatus string

const (
	// ApprovalStatusPending marks a request awaiting resolution by a group owner.
	ApprovalStatusPending ApprovalStatus = "pending"

	// ApprovalStatusApproved is the terminal approved state.
	ApprovalStatusApproved ApprovalStatus = "approved"

	// ApprovalStatusRejected is the terminal rejected state.
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// IsValid reports whether the status is recognized.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the approval lifecycle.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// String returns the status as a string.
func (s ApprovalStatus) String() string {
	return string(s)
}

// ParseApprovalStatus converts external text into an ApprovalStatus, case-insensitively.
func ParseApprovalStatus(value string) (ApprovalStatus, error) {
	status := ApprovalStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", ErrUnknownApprovalStatus
	}
	return status, nil
}
