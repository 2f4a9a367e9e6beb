package domain

// Effect is the outcome category of an authorization decision.
type Effect string

const (
	// EffectAllowed means the operation may proceed.
	EffectAllowed Effect = "allowed"

	// EffectDenied means the operation is refused; Decision.Reason says why.
	EffectDenied Effect = "denied"

	// EffectNeedsApproval means the operation may proceed only after a group
	// owner approves it through the approval workflow. Distinct from denial so
	// callers can branch into the workflow instead of failing the request.
	EffectNeedsApproval Effect = "needs_approval"
)

// Decision is the result of evaluating (user, resource, operation).
type Decision struct {
	Effect Effect
	// Reason carries the denial cause (ErrNotOwner, ErrNotInGroup,
	// ErrInsufficientRole, ErrUnknownOperation). Nil unless Effect is denied.
	Reason error
}

// Allowed returns an allow decision.
func Allowed() Decision {
	return Decision{Effect: EffectAllowed}
}

// Denied returns a deny decision with the given reason.
func Denied(reason error) Decision {
	return Decision{Effect: EffectDenied, Reason: reason}
}

// NeedsApproval returns a needs-approval decision.
func NeedsApproval() Decision {
	return Decision{Effect: EffectNeedsApproval}
}

// IsAllowed reports whether the decision permits the operation outright.
func (d Decision) IsAllowed() bool {
	return d.Effect == EffectAllowed
}

// IsDenied reports whether the decision refuses the operation.
func (d Decision) IsDenied() bool {
	return d.Effect == EffectDenied
}

// NeedsApproval reports whether the operation must route through the approval workflow.
func (d Decision) NeedsApproval() bool {
	return d.Effect == EffectNeedsApproval
}
