package domain

import "github.com/allisson/entitlements/internal/errors"

// Pipeline domain errors. Each wraps one of the shared sentinel errors so
// handlers can map it to a status code with errors.Is.
var (
	// ErrPipelineNotFound indicates the pipeline does not exist.
	ErrPipelineNotFound = errors.Wrap(errors.ErrNotFound, "pipeline not found")

	// ErrPipelineNameExists indicates another pipeline already uses the name.
	ErrPipelineNameExists = errors.Wrap(errors.ErrConflict, "pipeline name already exists")

	// ErrPipelineAlreadyPublished indicates a publish was attempted on a
	// pipeline already in the published state.
	ErrPipelineAlreadyPublished = errors.Wrap(errors.ErrConflict, "pipeline already published")

	// ErrUnknownPipelineStatus indicates a status outside DRAFT/PUBLISHED.
	ErrUnknownPipelineStatus = errors.Wrap(errors.ErrInvalidInput, "unknown pipeline status")
)
