// Package repository provides data persistence implementations for entitlement entities.
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

// PostgreSQLResourceRepository handles resource persistence for PostgreSQL
type PostgreSQLResourceRepository struct {
	db *sql.DB
}

// NewPostgreSQLResourceRepository creates a new PostgreSQLResourceRepository
func NewPostgreSQLResourceRepository(db *sql.DB) *PostgreSQLResourceRepository {
	return &PostgreSQLResourceRepository{
		db: db,
	}
}

// Create stores a new resource record
func (r *PostgreSQLResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO resources (id, kind, external_id, owner_kind, owner_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query,
		resource.ID, resource.Kind, resource.ExternalID,
		resource.OwnerKind.String(), resource.OwnerID, resource.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create resource")
	}
	return nil
}

// Get retrieves a resource by ID
func (r *PostgreSQLResourceRepository) Get(ctx context.Context, resourceID uuid.UUID) (*domain.Resource, error) {
	var resource domain.Resource
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, resourceID).Scan(
		&resource.ID, &resource.Kind, &resource.ExternalID,
		&resource.OwnerKind, &resource.OwnerID, &resource.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get resource by id")
	}

	return &resource, nil
}

// GetByExternalID retrieves the entitlement record for a registered domain object
func (r *PostgreSQLResourceRepository) GetByExternalID(
	ctx context.Context,
	kind string,
	externalID uuid.UUID,
) (*domain.Resource, error) {
	var resource domain.Resource
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE kind = $1 AND external_id = $2`

	err := querier.QueryRowContext(ctx, query, kind, externalID).Scan(
		&resource.ID, &resource.Kind, &resource.ExternalID,
		&resource.OwnerKind, &resource.OwnerID, &resource.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get resource by external id")
	}

	return &resource, nil
}

// ListByOwner returns resources bound to the given owner
func (r *PostgreSQLResourceRepository) ListByOwner(
	ctx context.Context,
	ownerKind domain.OwnerKind,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.Resource, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE owner_kind = $1 AND owner_id = $2
			  ORDER BY created_at LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, ownerKind.String(), ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list resources by owner")
	}
	return scanResources(rows)
}

// ListByKind returns resources with the given kind tag
func (r *PostgreSQLResourceRepository) ListByKind(
	ctx context.Context,
	kind string,
	offset, limit int,
) ([]*domain.Resource, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE kind = $1
			  ORDER BY created_at LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list resources by kind")
	}
	return scanResources(rows)
}

// CountByOwner returns the number of resources bound to the given owner
func (r *PostgreSQLResourceRepository) CountByOwner(
	ctx context.Context,
	ownerKind domain.OwnerKind,
	ownerID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM resources WHERE owner_kind = $1 AND owner_id = $2`

	var count int64
	err := querier.QueryRowContext(ctx, query, ownerKind.String(), ownerID).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count resources by owner")
	}
	return count, nil
}

// Delete removes a resource record
func (r *PostgreSQLResourceRepository) Delete(ctx context.Context, resourceID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM resources WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, resourceID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete resource")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// scanResources scans resource rows and closes them
func scanResources(rows *sql.Rows) ([]*domain.Resource, error) {
	defer func() { _ = rows.Close() }()

	resources := []*domain.Resource{}
	for rows.Next() {
		var resource domain.Resource
		err := rows.Scan(
			&resource.ID, &resource.Kind, &resource.ExternalID,
			&resource.OwnerKind, &resource.OwnerID, &resource.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan resource")
		}
		resources = append(resources, &resource)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate resources")
	}

	return resources, nil
}
