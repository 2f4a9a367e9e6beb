package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/database"
	"github.com/allisson/entitlements/internal/entitlement/domain"

	apperrors "github.com/allisson/entitlements/internal/errors"
)

// PostgreSQLApprovalRepository handles operation approval persistence for PostgreSQL
type PostgreSQLApprovalRepository struct {
	db *sql.DB
}

// NewPostgreSQLApprovalRepository creates a new PostgreSQLApprovalRepository
func NewPostgreSQLApprovalRepository(db *sql.DB) *PostgreSQLApprovalRepository {
	return &PostgreSQLApprovalRepository{
		db: db,
	}
}

// Create stores a new approval request
func (r *PostgreSQLApprovalRepository) Create(ctx context.Context, approval *domain.OperationApproval) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO operation_approvals (id, resource_id, operation, requested_by, status, requested_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query,
		approval.ID, approval.ResourceID, approval.Operation.String(),
		approval.RequestedBy, approval.Status.String(), approval.RequestedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create approval")
	}
	return nil
}

// Get retrieves an approval by ID
func (r *PostgreSQLApprovalRepository) Get(ctx context.Context, approvalID uuid.UUID) (*domain.OperationApproval, error) {
	var approval domain.OperationApproval
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, resource_id, operation, requested_by, approved_by, status, requested_at, resolved_at
			  FROM operation_approvals WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, approvalID).Scan(
		&approval.ID, &approval.ResourceID, &approval.Operation, &approval.RequestedBy,
		&approval.ApprovedBy, &approval.Status, &approval.RequestedAt, &approval.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApprovalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get approval by id")
	}

	return &approval, nil
}

// Resolve transitions a pending approval to a terminal status. The update is
// conditional on the row still being pending, so of two concurrent resolvers
// exactly one wins; the loser gets ErrApprovalAlreadyProcessed.
func (r *PostgreSQLApprovalRepository) Resolve(
	ctx context.Context,
	approvalID uuid.UUID,
	status domain.ApprovalStatus,
	approverID uuid.UUID,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE operation_approvals SET status = $2, approved_by = $3, resolved_at = NOW()
			  WHERE id = $1 AND status = 'pending'`

	result, err := querier.ExecContext(ctx, query, approvalID, status.String(), approverID)
	if err != nil {
		return apperrors.Wrap(err, "failed to resolve approval")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrApprovalAlreadyProcessed
	}
	return nil
}

// ListPendingByResource returns pending approvals targeting the resource
func (r *PostgreSQLApprovalRepository) ListPendingByResource(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*domain.OperationApproval, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, resource_id, operation, requested_by, approved_by, status, requested_at, resolved_at
			  FROM operation_approvals WHERE resource_id = $1 AND status = 'pending'
			  ORDER BY requested_at`

	rows, err := querier.QueryContext(ctx, query, resourceID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pending approvals")
	}
	return scanApprovals(rows)
}

// ListByRequester returns approvals filed by the user, all statuses
func (r *PostgreSQLApprovalRepository) ListByRequester(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.OperationApproval, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, resource_id, operation, requested_by, approved_by, status, requested_at, resolved_at
			  FROM operation_approvals WHERE requested_by = $1
			  ORDER BY requested_at DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list approvals by requester")
	}
	return scanApprovals(rows)
}

// scanApprovals scans approval rows and closes them
func scanApprovals(rows *sql.Rows) ([]*domain.OperationApproval, error) {
	defer func() { _ = rows.Close() }()

	approvals := []*domain.OperationApproval{}
	for rows.Next() {
		var approval domain.OperationApproval
		err := rows.Scan(
			&approval.ID, &approval.ResourceID, &approval.Operation, &approval.RequestedBy,
			&approval.ApprovedBy, &approval.Status, &approval.RequestedAt, &approval.ResolvedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan approval")
		}
		approvals = append(approvals, &approval)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate approvals")
	}

	return approvals, nil
}
