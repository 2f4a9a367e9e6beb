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

// MySQLRoleRepository reads the role catalog for MySQL.
// The catalog is seeded by migration and never written at runtime.
type MySQLRoleRepository struct {
	db *sql.DB
}

// NewMySQLRoleRepository creates a new MySQLRoleRepository
func NewMySQLRoleRepository(db *sql.DB) *MySQLRoleRepository {
	return &MySQLRoleRepository{
		db: db,
	}
}

// Get retrieves a role by ID
func (r *MySQLRoleRepository) Get(ctx context.Context, roleID uuid.UUID) (*domain.Role, error) {
	var role domain.Role
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name FROM roles WHERE id = ?`

	uuidBytes, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var idBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(&idBytes, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role by id")
	}

	if err := role.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &role, nil
}

// GetByName retrieves a role by catalog name
func (r *MySQLRoleRepository) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var role domain.Role
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name FROM roles WHERE name = ?`

	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, name.String()).Scan(&idBytes, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role by name")
	}

	if err := role.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &role, nil
}

// List returns the full catalog
func (r *MySQLRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name FROM roles ORDER BY name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list roles")
	}
	defer func() { _ = rows.Close() }()

	roles := []*domain.Role{}
	for rows.Next() {
		var role domain.Role
		var idBytes []byte
		if err := rows.Scan(&idBytes, &role.Name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		if err := role.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate roles")
	}

	return roles, nil
}
