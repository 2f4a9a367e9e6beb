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

// MySQLApprovalRepository handles operation approval persistence for MySQL
type MySQLApprovalRepository struct {
	db *sql.DB
}

// NewMySQLApprovalRepository creates a new MySQLApprovalRepository
func NewMySQLApprovalRepository(db *sql.DB) *MySQLApprovalRepository {
	return &MySQLApprovalRepository{
		db: db,
	}
}

// Create stores a new approval request
func (r *MySQLApprovalRepository) Create(ctx context.Context, approval *domain.OperationApproval) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO operation_approvals (id, resource_id, operation, requested_by, status, requested_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	args, err := marshalUUIDs(approval.ID, approval.ResourceID, approval.RequestedBy)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query,
		args[0], args[1], approval.Operation.String(), args[2], approval.Status.String(), approval.RequestedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create approval")
	}
	return nil
}

// Get retrieves an approval by ID
func (r *MySQLApprovalRepository) Get(ctx context.Context, approvalID uuid.UUID) (*domain.OperationApproval, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, resource_id, operation, requested_by, approved_by, status, requested_at, resolved_at
			  FROM operation_approvals WHERE id = ?`

	uuidBytes, err := approvalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var approval domain.OperationApproval
	var idBytes, resourceBytes, requesterBytes, approverBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes, &resourceBytes, &approval.Operation, &requesterBytes,
		&approverBytes, &approval.Status, &approval.RequestedAt, &approval.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApprovalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get approval by id")
	}

	if err := unmarshalApprovalUUIDs(&approval, idBytes, resourceBytes, requesterBytes, approverBytes); err != nil {
		return nil, err
	}

	return &approval, nil
}

// Resolve transitions a pending approval to a terminal status. The update is
// conditional on the row still being pending, so of two concurrent resolvers
// exactly one wins; the loser gets ErrApprovalAlreadyProcessed.
func (r *MySQLApprovalRepository) Resolve(
	ctx context.Context,
	approvalID uuid.UUID,
	status domain.ApprovalStatus,
	approverID uuid.UUID,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE operation_approvals SET status = ?, approved_by = ?, resolved_at = NOW()
			  WHERE id = ? AND status = 'pending'`

	args, err := marshalUUIDs(approverID, approvalID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, status.String(), args[0], args[1])
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
func (r *MySQLApprovalRepository) ListPendingByResource(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*domain.OperationApproval, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, resource_id, operation, requested_by, approved_by, status, requested_at, resolved_at
			  FROM operation_approvals WHERE resource_id = ? AND status = 'pending'
			  ORDER BY requested_at`

	resourceBytes, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	rows, err := querier.QueryContext(ctx, query, resourceBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pending approvals")
	}
	return scanMySQLApprovals(rows)
}

// ListByRequester returns approvals filed by the user, all statuses
func (r *MySQLApprovalRepository) ListByRequester(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.OperationApproval, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, resource_id, operation, requested_by, approved_by, status, requested_at, resolved_at
			  FROM operation_approvals WHERE requested_by = ?
			  ORDER BY requested_at DESC LIMIT ? OFFSET ?`

	userBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	rows, err := querier.QueryContext(ctx, query, userBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list approvals by requester")
	}
	return scanMySQLApprovals(rows)
}

// scanMySQLApprovals scans approval rows and closes them
func scanMySQLApprovals(rows *sql.Rows) ([]*domain.OperationApproval, error) {
	defer func() { _ = rows.Close() }()

	approvals := []*domain.OperationApproval{}
	for rows.Next() {
		var approval domain.OperationApproval
		var idBytes, resourceBytes, requesterBytes, approverBytes []byte
		err := rows.Scan(
			&idBytes, &resourceBytes, &approval.Operation, &requesterBytes,
			&approverBytes, &approval.Status, &approval.RequestedAt, &approval.ResolvedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan approval")
		}
		if err := unmarshalApprovalUUIDs(&approval, idBytes, resourceBytes, requesterBytes, approverBytes); err != nil {
			return nil, err
		}
		approvals = append(approvals, &approval)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate approvals")
	}

	return approvals, nil
}

// unmarshalApprovalUUIDs converts BINARY(16) columns back into the approval
// UUIDs. The approver column is nullable.
func unmarshalApprovalUUIDs(
	approval *domain.OperationApproval,
	idBytes, resourceBytes, requesterBytes, approverBytes []byte,
) error {
	if err := approval.ID.UnmarshalBinary(idBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := approval.ResourceID.UnmarshalBinary(resourceBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := approval.RequestedBy.UnmarshalBinary(requesterBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if approverBytes != nil {
		var approverID uuid.UUID
		if err := approverID.UnmarshalBinary(approverBytes); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		approval.ApprovedBy = &approverID
	}
	return nil
}
