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

// PostgreSQLGroupRepository handles group persistence for PostgreSQL
type PostgreSQLGroupRepository struct {
	db *sql.DB
}

// NewPostgreSQLGroupRepository creates a new PostgreSQLGroupRepository
func NewPostgreSQLGroupRepository(db *sql.DB) *PostgreSQLGroupRepository {
	return &PostgreSQLGroupRepository{
		db: db,
	}
}

// Create inserts a new group
func (r *PostgreSQLGroupRepository) Create(ctx context.Context, group *domain.UserGroup) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO user_groups (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, group.ID, group.Name, group.CreatedAt)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrGroupNameExists
		}
		return apperrors.Wrap(err, "failed to create group")
	}
	return nil
}

// Get retrieves a group by ID
func (r *PostgreSQLGroupRepository) Get(ctx context.Context, groupID uuid.UUID) (*domain.UserGroup, error) {
	var group domain.UserGroup
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM user_groups WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, groupID).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get group by id")
	}

	return &group, nil
}

// GetByName retrieves a group by name
func (r *PostgreSQLGroupRepository) GetByName(ctx context.Context, name string) (*domain.UserGroup, error) {
	var group domain.UserGroup
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM user_groups WHERE name = $1`

	err := querier.QueryRowContext(ctx, query, name).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get group by name")
	}

	return &group, nil
}

// Delete removes a group
func (r *PostgreSQLGroupRepository) Delete(ctx context.Context, groupID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM user_groups WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, groupID)
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
func (r *PostgreSQLGroupRepository) List(ctx context.Context, offset, limit int) ([]*domain.UserGroup, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM user_groups ORDER BY created_at LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list groups")
	}
	defer func() { _ = rows.Close() }()

	groups := []*domain.UserGroup{}
	for rows.Next() {
		var group domain.UserGroup
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan group")
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate groups")
	}

	return groups, nil
}
