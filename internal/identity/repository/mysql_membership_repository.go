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

// MySQLMembershipRepository handles role assignment persistence for MySQL
type MySQLMembershipRepository struct {
	db *sql.DB
}

// NewMySQLMembershipRepository creates a new MySQLMembershipRepository
func NewMySQLMembershipRepository(db *sql.DB) *MySQLMembershipRepository {
	return &MySQLMembershipRepository{
		db: db,
	}
}

// Create inserts a membership row. The (user_id, group_id) unique constraint
// backs the one-role-per-pair invariant.
func (r *MySQLMembershipRepository) Create(ctx context.Context, membership *domain.GroupMembership) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO group_memberships (id, user_id, group_id, role_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	args, err := marshalUUIDs(membership.ID, membership.UserID, membership.GroupID, membership.RoleID)
	if err != nil {
		return err
	}
	args = append(args, membership.CreatedAt, membership.UpdatedAt)

	_, err = querier.ExecContext(ctx, query, args...)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return apperrors.Wrap(err, "failed to create membership")
	}
	return nil
}

// GetByUserAndGroup retrieves the membership row for the pair
func (r *MySQLMembershipRepository) GetByUserAndGroup(
	ctx context.Context,
	userID, groupID uuid.UUID,
) (*domain.GroupMembership, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, group_id, role_id, created_at, updated_at
			  FROM group_memberships WHERE user_id = ? AND group_id = ?`

	args, err := marshalUUIDs(userID, groupID)
	if err != nil {
		return nil, err
	}

	var membership domain.GroupMembership
	var idBytes, userBytes, groupBytes, roleBytes []byte
	err = querier.QueryRowContext(ctx, query, args...).Scan(
		&idBytes, &userBytes, &groupBytes, &roleBytes,
		&membership.CreatedAt, &membership.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get membership")
	}

	if err := unmarshalMembershipUUIDs(&membership, idBytes, userBytes, groupBytes, roleBytes); err != nil {
		return nil, err
	}

	return &membership, nil
}

// UpdateRole changes the role on an existing membership
func (r *MySQLMembershipRepository) UpdateRole(ctx context.Context, userID, groupID, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE group_memberships SET role_id = ?, updated_at = NOW()
			  WHERE user_id = ? AND group_id = ?`

	args, err := marshalUUIDs(roleID, userID, groupID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, args...)
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
func (r *MySQLMembershipRepository) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM group_memberships WHERE user_id = ? AND group_id = ?`

	args, err := marshalUUIDs(userID, groupID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, args...)
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
func (r *MySQLMembershipRepository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM group_memberships WHERE group_id = ?`

	uuidBytes, err := groupID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	if _, err := querier.ExecContext(ctx, query, uuidBytes); err != nil {
		return apperrors.Wrap(err, "failed to delete group memberships")
	}
	return nil
}

// ListByUser returns the user's memberships across all groups
func (r *MySQLMembershipRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.GroupMembership, error) {
	query := `SELECT id, user_id, group_id, role_id, created_at, updated_at
			  FROM group_memberships WHERE user_id = ? ORDER BY created_at`

	return r.queryMemberships(ctx, query, userID)
}

// ListByGroup returns the group's memberships across all users
func (r *MySQLMembershipRepository) ListByGroup(
	ctx context.Context,
	groupID uuid.UUID,
) ([]*domain.GroupMembership, error) {
	query := `SELECT id, user_id, group_id, role_id, created_at, updated_at
			  FROM group_memberships WHERE group_id = ? ORDER BY created_at`

	return r.queryMemberships(ctx, query, groupID)
}

// queryMemberships runs a membership query and scans the rows
func (r *MySQLMembershipRepository) queryMemberships(
	ctx context.Context,
	query string,
	id uuid.UUID,
) ([]*domain.GroupMembership, error) {
	querier := database.GetTx(ctx, r.db)

	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	rows, err := querier.QueryContext(ctx, query, uuidBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list memberships")
	}
	defer func() { _ = rows.Close() }()

	memberships := []*domain.GroupMembership{}
	for rows.Next() {
		var membership domain.GroupMembership
		var idBytes, userBytes, groupBytes, roleBytes []byte
		err := rows.Scan(
			&idBytes, &userBytes, &groupBytes, &roleBytes,
			&membership.CreatedAt, &membership.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan membership")
		}
		if err := unmarshalMembershipUUIDs(&membership, idBytes, userBytes, groupBytes, roleBytes); err != nil {
			return nil, err
		}
		memberships = append(memberships, &membership)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate memberships")
	}

	return memberships, nil
}

// marshalUUIDs converts UUIDs to MySQL BINARY(16) query arguments
func marshalUUIDs(ids ...uuid.UUID) ([]interface{}, error) {
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		uuidBytes, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal UUID")
		}
		args = append(args, uuidBytes)
	}
	return args, nil
}

// unmarshalMembershipUUIDs converts BINARY(16) columns back into the membership UUIDs
func unmarshalMembershipUUIDs(
	membership *domain.GroupMembership,
	idBytes, userBytes, groupBytes, roleBytes []byte,
) error {
	if err := membership.ID.UnmarshalBinary(idBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := membership.UserID.UnmarshalBinary(userBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := membership.GroupID.UnmarshalBinary(groupBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := membership.RoleID.UnmarshalBinary(roleBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return nil
}
