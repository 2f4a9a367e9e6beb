// Package repository provides data persistence implementations for pipelines.
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

// PostgreSQLPipelineRepository handles pipeline persistence for PostgreSQL
type PostgreSQLPipelineRepository struct {
	db *sql.DB
}

// NewPostgreSQLPipelineRepository creates a new PostgreSQLPipelineRepository
func NewPostgreSQLPipelineRepository(db *sql.DB) *PostgreSQLPipelineRepository {
	return &PostgreSQLPipelineRepository{
		db: db,
	}
}

// Create stores a new pipeline
func (r *PostgreSQLPipelineRepository) Create(ctx context.Context, pipeline *domain.Pipeline) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO pipelines (id, name, description, configuration, status, created_by, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(ctx, query,
		pipeline.ID, pipeline.Name, pipeline.Description, pipeline.Configuration,
		pipeline.Status.String(), pipeline.CreatedBy, pipeline.CreatedAt, pipeline.UpdatedAt,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate name)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrPipelineNameExists
		}
		return apperrors.Wrap(err, "failed to create pipeline")
	}
	return nil
}

// Get retrieves a pipeline by ID
func (r *PostgreSQLPipelineRepository) Get(ctx context.Context, pipelineID uuid.UUID) (*domain.Pipeline, error) {
	var pipeline domain.Pipeline
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, description, configuration, status, created_by, created_at, updated_at
			  FROM pipelines WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, pipelineID).Scan(
		&pipeline.ID, &pipeline.Name, &pipeline.Description, &pipeline.Configuration,
		&pipeline.Status, &pipeline.CreatedBy, &pipeline.CreatedAt, &pipeline.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPipelineNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get pipeline by id")
	}

	return &pipeline, nil
}

// Update persists the pipeline's mutable fields
func (r *PostgreSQLPipelineRepository) Update(ctx context.Context, pipeline *domain.Pipeline) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE pipelines SET name = $2, description = $3, configuration = $4, status = $5, updated_at = $6
			  WHERE id = $1`

	result, err := querier.ExecContext(ctx, query,
		pipeline.ID, pipeline.Name, pipeline.Description, pipeline.Configuration,
		pipeline.Status.String(), pipeline.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
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
func (r *PostgreSQLPipelineRepository) Delete(ctx context.Context, pipelineID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM pipelines WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, pipelineID)
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
func (r *PostgreSQLPipelineRepository) List(ctx context.Context, offset, limit int) ([]*domain.Pipeline, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, description, configuration, status, created_by, created_at, updated_at
			  FROM pipelines ORDER BY created_at LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pipelines")
	}
	defer func() { _ = rows.Close() }()

	pipelines := []*domain.Pipeline{}
	for rows.Next() {
		var pipeline domain.Pipeline
		err := rows.Scan(
			&pipeline.ID, &pipeline.Name, &pipeline.Description, &pipeline.Configuration,
			&pipeline.Status, &pipeline.CreatedBy, &pipeline.CreatedAt, &pipeline.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan pipeline")
		}
		pipelines = append(pipelines, &pipeline)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate pipelines")
	}

	return pipelines, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
