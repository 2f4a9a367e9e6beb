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

// MySQLResourceRepository handles resource persistence for MySQL
type MySQLResourceRepository struct {
	db *sql.DB
}

// NewMySQLResourceRepository creates a new MySQLResourceRepository
func NewMySQLResourceRepository(db *sql.DB) *MySQLResourceRepository {
	return &MySQLResourceRepository{
		db: db,
	}
}

// Create stores a new resource record
func (r *MySQLResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO resources (id, kind, external_id, owner_kind, owner_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	args, err := marshalUUIDs(resource.ID, resource.ExternalID, resource.OwnerID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query,
		args[0], resource.Kind, args[1], resource.OwnerKind.String(), args[2], resource.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create resource")
	}
	return nil
}

// Get retrieves a resource by ID
func (r *MySQLResourceRepository) Get(ctx context.Context, resourceID uuid.UUID) (*domain.Resource, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE id = ?`

	uuidBytes, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var resource domain.Resource
	var idBytes, externalBytes, ownerBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes, &resource.Kind, &externalBytes,
		&resource.OwnerKind, &ownerBytes, &resource.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get resource by id")
	}

	if err := unmarshalResourceUUIDs(&resource, idBytes, externalBytes, ownerBytes); err != nil {
		return nil, err
	}

	return &resource, nil
}

// GetByExternalID retrieves the entitlement record for a registered domain object
func (r *MySQLResourceRepository) GetByExternalID(
	ctx context.Context,
	kind string,
	externalID uuid.UUID,
) (*domain.Resource, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE kind = ? AND external_id = ?`

	externalBytes, err := externalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var resource domain.Resource
	var idBytes, extBytes, ownerBytes []byte
	err = querier.QueryRowContext(ctx, query, kind, externalBytes).Scan(
		&idBytes, &resource.Kind, &extBytes,
		&resource.OwnerKind, &ownerBytes, &resource.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get resource by external id")
	}

	if err := unmarshalResourceUUIDs(&resource, idBytes, extBytes, ownerBytes); err != nil {
		return nil, err
	}

	return &resource, nil
}

// ListByOwner returns resources bound to the given owner
func (r *MySQLResourceRepository) ListByOwner(
	ctx context.Context,
	ownerKind domain.OwnerKind,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.Resource, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE owner_kind = ? AND owner_id = ?
			  ORDER BY created_at LIMIT ? OFFSET ?`

	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	rows, err := querier.QueryContext(ctx, query, ownerKind.String(), ownerBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list resources by owner")
	}
	return scanMySQLResources(rows)
}

// ListByKind returns resources with the given kind tag
func (r *MySQLResourceRepository) ListByKind(
	ctx context.Context,
	kind string,
	offset, limit int,
) ([]*domain.Resource, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, kind, external_id, owner_kind, owner_id, created_at
			  FROM resources WHERE kind = ?
			  ORDER BY created_at LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list resources by kind")
	}
	return scanMySQLResources(rows)
}

// CountByOwner returns the number of resources bound to the given owner
func (r *MySQLResourceRepository) CountByOwner(
	ctx context.Context,
	ownerKind domain.OwnerKind,
	ownerID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM resources WHERE owner_kind = ? AND owner_id = ?`

	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var count int64
	err = querier.QueryRowContext(ctx, query, ownerKind.String(), ownerBytes).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count resources by owner")
	}
	return count, nil
}

// Delete removes a resource record
func (r *MySQLResourceRepository) Delete(ctx context.Context, resourceID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM resources WHERE id = ?`

	uuidBytes, err := resourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, uuidBytes)
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

// scanMySQLResources scans resource rows and closes them
func scanMySQLResources(rows *sql.Rows) ([]*domain.Resource, error) {
	defer func() { _ = rows.Close() }()

	resources := []*domain.Resource{}
	for rows.Next() {
		var resource domain.Resource
		var idBytes, externalBytes, ownerBytes []byte
		err := rows.Scan(
			&idBytes, &resource.Kind, &externalBytes,
			&resource.OwnerKind, &ownerBytes, &resource.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan resource")
		}
		if err := unmarshalResourceUUIDs(&resource, idBytes, externalBytes, ownerBytes); err != nil {
			return nil, err
		}
		resources = append(resources, &resource)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate resources")
	}

	return resources, nil
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

// unmarshalResourceUUIDs converts BINARY(16) columns back into the resource UUIDs
func unmarshalResourceUUIDs(resource *domain.Resource, idBytes, externalBytes, ownerBytes []byte) error {
	if err := resource.ID.UnmarshalBinary(idBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := resource.ExternalID.UnmarshalBinary(externalBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := resource.OwnerID.UnmarshalBinary(ownerBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return nil
}
