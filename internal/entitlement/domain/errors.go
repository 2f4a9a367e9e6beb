package domain

import "github.com/allisson/entitlements/internal/errors"

// Entitlement domain errors. Each wraps one of the shared sentinel errors so
// handlers can map it to a status code with errors.Is.
var (
	// ErrResourceNotFound indicates the entitlement record does not exist.
	ErrResourceNotFound = errors.Wrap(errors.ErrNotFound, "resource not found")

	// ErrResourceOwnerNotFound indicates the owner referenced at registration
	// does not resolve to an existing user or group.
	ErrResourceOwnerNotFound = errors.Wrap(errors.ErrNotFound, "resource owner not found")

	// ErrOwnerRoleRequired indicates a group resource registration was attempted
	// by a caller without the OWNER role in that group.
	ErrOwnerRoleRequired = errors.Wrap(errors.ErrForbidden, "only a group owner can register group resources")

	// ErrNotOwner indicates the caller is not the owner of a user-owned resource.
	ErrNotOwner = errors.Wrap(errors.ErrForbidden, "resource belongs to another user")

	// ErrNotInGroup indicates the caller has no membership in the owning group.
	ErrNotInGroup = errors.Wrap(errors.ErrForbidden, "user not in owning group")

	// ErrInsufficientRole indicates the caller's role does not permit the operation.
	ErrInsufficientRole = errors.Wrap(errors.ErrForbidden, "role does not permit operation")

	// ErrUnknownOperation indicates an operation outside the recognized set.
	ErrUnknownOperation = errors.Wrap(errors.ErrInvalidInput, "unknown operation")

	// ErrUnknownOwnerKind indicates an owner kind outside USER/GROUP.
	ErrUnknownOwnerKind = errors.Wrap(errors.ErrInvalidInput, "unknown owner kind")

	// ErrUnknownApprovalStatus indicates a status outside pending/approved/rejected.
	ErrUnknownApprovalStatus = errors.Wrap(errors.ErrInvalidInput, "unknown approval status")

	// ErrApprovalNotFound indicates the approval request does not exist.
	ErrApprovalNotFound = errors.Wrap(errors.ErrNotFound, "approval not found")

	// ErrApprovalNotNeeded indicates the engine would not return a
	// needs-approval decision for the combination, so no request may be filed
	// (or resolved) for it.
	ErrApprovalNotNeeded = errors.Wrap(errors.ErrInvalidInput, "operation does not need approval")

	// ErrApprovalAlreadyProcessed indicates the approval reached a terminal
	// state; terminal states are never re-entered.
	ErrApprovalAlreadyProcessed = errors.Wrap(errors.ErrConflict, "approval already processed")

	// ErrApproverNotInGroup indicates the resolver has no membership in the
	// group that owns the target resource.
	ErrApproverNotInGroup = errors.Wrap(errors.ErrForbidden, "approver not in owning group")
)
