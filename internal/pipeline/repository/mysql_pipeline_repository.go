package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/database"
	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/pipeline/domain"
)

// MySQLPipelineRepository handles pipeline persistence for MySQL
type MySQLPipelineRepository struct {
	db *sql.DB
}

// NewMySQLPipelineRepository creates a new MySQLPipelineRepository
func NewMySQLPipelineRepository(db *sql.DB) *MySQLPipelineRepository {
	return &MySQLPipelineRepository{
		db: db,
	}
}

// Create stores a new pipeline
func (r *MySQLPipelineRepository) Create(ctx context.Context, pipeline *domain.Pipeline) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO pipelines (id, name, description, configuration, status, created_by, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	idBytes, err := pipeline.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	creatorBytes, err := pipeline.CreatedBy.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query,
		idBytes, pipeline.Name, pipeline.Description, pipeline.Configuration,
		pipeline.Status.String(), creatorBytes, pipeline.CreatedAt, pipeline.UpdatedAt,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate name)
		if isMySQLUniqueViolation(err) {
			return domain.ErrPipelineNameExists
		}
		return apperrors.Wrap(err, "failed to create pipeline")
	}
	return nil
}

// Get retrieves a pipeline by ID
func (r *MySQLPipelineRepository) Get(ctx context.Context, pipelineID uuid.UUID) (*domain.Pipeline, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, description, configuration, status, created_by, created_at, updated_at
			  FROM pipelines WHERE id = ?`

	uuidBytes, err := pipelineID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var pipeline domain.Pipeline
	var idBytes, creatorBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes, &pipeline.Name, &pipeline.Description, &pipeline.Configuration,
		&pipeline.Status, &creatorBytes, &pipeline.CreatedAt, &pipeline.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPipelineNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get pipeline by id")
	}

	if err := unmarshalPipelineUUIDs(&pipeline, idBytes, creatorBytes); err != nil {
		return nil, err
	}

	return &pipeline, nil
}

// Update persists the pipeline's mutable fields
func (r *MySQLPipelineRepository) Update(ctx context.Context, pipeline *domain.Pipeline) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE pipelines SET name = ?, description = ?, configuration = ?, status = ?, updated_at = ?
			  WHERE id = ?`

	idBytes, err := pipeline.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query,
		pipeline.Name, pipeline.Description, pipeline.Configuration,
		pipeline.Status.String(), pipeline.UpdatedAt, idBytes,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrPipelineNameExists
		}
		return apperrors.Wrap(err, "failed to update pipeline")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrPipelineNotFound
	}
	return nil
}

// Delete removes a pipeline
func (r *MySQLPipelineRepository) Delete(ctx context.Context, pipelineID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM pipelines WHERE id = ?`

	uuidBytes, err := pipelineID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, uuidBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete pipeline")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrPipelineNotFound
	}
	return nil
}

// List returns pipelines ordered by creation time
func (r *MySQLPipelineRepository) List(ctx context.Context, offset, limit int) ([]*domain.Pipeline, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, description, configuration, status, created_by, created_at, updated_at
			  FROM pipelines ORDER BY created_at LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pipelines")
	}
	defer func() { _ = rows.Close() }()

	pipelines := []*domain.Pipeline{}
	for rows.Next() {
		var pipeline domain.Pipeline
		var idBytes, creatorBytes []byte
		err := rows.Scan(
			&idBytes, &pipeline.Name, &pipeline.Description, &pipeline.Configuration,
			&pipeline.Status, &creatorBytes, &pipeline.CreatedAt, &pipeline.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan pipeline")
		}
		if err := unmarshalPipelineUUIDs(&pipeline, idBytes, creatorBytes); err != nil {
			return nil, err
		}
		pipelines = append(pipelines, &pipeline)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate pipelines")
	}

	return pipelines, nil
}

// unmarshalPipelineUUIDs converts BINARY(16) columns back into the pipeline UUIDs
func unmarshalPipelineUUIDs(pipeline *domain.Pipeline, idBytes, creatorBytes []byte) error {
	if err := pipeline.ID.UnmarshalBinary(idBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := pipeline.CreatedBy.UnmarshalBinary(creatorBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
