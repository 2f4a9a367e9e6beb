package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/database"
	"github.com/allisson/entitlements/internal/identity/domain"

	apperrors "github.com/allisson/entitlements/internal/errors"
)

// PostgreSQLMembershipRepository handles role assignment persistence for PostgreSQL
type PostgreSQLMembershipRepository struct {
	db *sql.DB
}

// NewPostgreSQLMembershipRepository creates a new PostgreSQLMembershipRepository
func NewPostgreSQLMembershipRepository(db *sql.DB) *PostgreSQLMembershipRepository {
	return &PostgreSQLMembershipRepository{
		db: db,
	}
}

// Create inserts a membership row. The (user_id, group_id) unique constraint
// backs the one-role-per-pair invariant.
func (r *PostgreSQLMembershipRepository) Create(ctx context.Context, membership *domain.GroupMembership) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO group_memberships (id, user_id, group_id, role_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query,
		membership.ID, membership.UserID, membership.GroupID, membership.RoleID,
		membership.CreatedAt, membership.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return apperrors.Wrap(err, "failed to create membership")
	}
	return nil
}

// GetByUserAndGroup retrieves the membership row for the pair
func (r *PostgreSQLMembershipRepository) GetByUserAndGroup(
	ctx context.Context,
	userID, groupID uuid.UUID,
) (*domain.GroupMembership, error) {
	var membership domain.GroupMembership
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, group_id, role_id, created_at, updated_at
			  FROM group_memberships WHERE user_id = $1 AND group_id = $2`

	err := querier.QueryRowContext(ctx, query, userID, groupID).Scan(
		&membership.ID, &membership.UserID, &membership.GroupID, &membership.RoleID,
		&membership.CreatedAt, &membership.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get membership")
	}

	return &membership, nil
}

// UpdateRole changes the role on an existing membership
func (r *PostgreSQLMembershipRepository) UpdateRole(ctx context.Context, userID, groupID, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE group_memberships SET role_id = $3, updated_at = NOW()
			  WHERE user_id = $1 AND group_id = $2`

	result, err := querier.ExecContext(ctx, query, userID, groupID, roleID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update membership role")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

// Delete removes the membership row for the pair
func (r *PostgreSQLMembershipRepository) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM group_memberships WHERE user_id = $1 AND group_id = $2`

	result, err := querier.ExecContext(ctx, query, userID, groupID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete membership")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

// DeleteByGroup removes every membership row of the group
func (r *PostgreSQLMembershipRepository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM group_memberships WHERE group_id = $1`

	if _, err := querier.ExecContext(ctx, query, groupID); err != nil {
		return apperrors.Wrap(err, "failed to delete group memberships")
	}
	return nil
}

// ListByUser returns the user's memberships across all groups
func (r *PostgreSQLMembershipRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.GroupMembership, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, group_id, role_id, created_at, updated_at
			  FROM group_memberships WHERE user_id = $1 ORDER BY created_at`

	return r.queryMemberships(ctx, querier, query, userID)
}

// ListByGroup returns the group's memberships across all users
func (r *PostgreSQLMembershipRepository) ListByGroup(
	ctx context.Context,
	groupID uuid.UUID,
) ([]*domain.GroupMembership, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, group_id, role_id, created_at, updated_at
			  FROM group_memberships WHERE group_id = $1 ORDER BY created_at`

	return r.queryMemberships(ctx, querier, query, groupID)
}

// queryMemberships runs a membership query and scans the rows
func (r *PostgreSQLMembershipRepository) queryMemberships(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...interface{},
) ([]*domain.GroupMembership, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list memberships")
	}
	defer func() { _ = rows.Close() }()

	memberships := []*domain.GroupMembership{}
	for rows.Next() {
		var membership domain.GroupMembership
		err := rows.Scan(
			&membership.ID, &membership.UserID, &membership.GroupID, &membership.RoleID,
			&membership.CreatedAt, &membership.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan membership")
		}
		memberships = append(memberships, &membership)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate memberships")
	}

	return memberships, nil
}
