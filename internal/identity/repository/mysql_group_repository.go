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

// MySQLGroupRepository handles group persistence for MySQL
type MySQLGroupRepository struct {
	db *sql.DB
}

// NewMySQLGroupRepository creates a new MySQLGroupRepository
func NewMySQLGroupRepository(db *sql.DB) *MySQLGroupRepository {
	return &MySQLGroupRepository{
		db: db,
	}
}

// Create inserts a new group
func (r *MySQLGroupRepository) Create(ctx context.Context, group *domain.UserGroup) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO user_groups (id, name, created_at) VALUES (?, ?, ?)`

	uuidBytes, err := group.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, uuidBytes, group.Name, group.CreatedAt)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrGroupNameExists
		}
		return apperrors.Wrap(err, "failed to create group")
	}
	return nil
}

// Get retrieves a group by ID
func (r *MySQLGroupRepository) Get(ctx context.Context, groupID uuid.UUID) (*domain.UserGroup, error) {
	var group domain.UserGroup
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM user_groups WHERE id = ?`

	uuidBytes, err := groupID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var idBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(&idBytes, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get group by id")
	}

	if err := group.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &group, nil
}

// GetByName retrieves a group by name
func (r *MySQLGroupRepository) GetByName(ctx context.Context, name string) (*domain.UserGroup, error) {
	var group domain.UserGroup
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM user_groups WHERE name = ?`

	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, name).Scan(&idBytes, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get group by name")
	}

	if err := group.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &group, nil
}

// Delete removes a group
func (r *MySQLGroupRepository) Delete(ctx context.Context, groupID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM user_groups WHERE id = ?`

	uuidBytes, err := groupID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, uuidBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete group")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// List returns groups ordered by creation time
func (r *MySQLGroupRepository) List(ctx context.Context, offset, limit int) ([]*domain.UserGroup, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM user_groups ORDER BY created_at LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list groups")
	}
	defer func() { _ = rows.Close() }()

	groups := []*domain.UserGroup{}
	for rows.Next() {
		var group domain.UserGroup
		var idBytes []byte
		if err := rows.Scan(&idBytes, &group.Name, &group.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan group")
		}
		if err := group.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate groups")
	}

	return groups, nil
}
