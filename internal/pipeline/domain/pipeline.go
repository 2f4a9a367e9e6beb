// Package domain defines the pipeline domain model. Pipelines are the first
// protected surface wired through the entitlement engine: every pipeline
// registers an entitlement resource under the "pipeline" kind, and every
// operation on it routes through the access decision engine.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResourceKind is the entitlement resource kind pipelines register under.
const ResourceKind = "pipeline"

// PipelineStatus is the lifecycle state of a pipeline.
type PipelineStatus string

const (
	// PipelineStatusDraft marks a pipeline still being edited.
	PipelineStatusDraft PipelineStatus = "DRAFT"

	// PipelineStatusPublished marks a pipeline promoted for execution.
	PipelineStatusPublished PipelineStatus = "PUBLISHED"
)

// IsValid reports whether the status is recognized.
func (s PipelineStatus) IsValid() bool {
	return s == PipelineStatusDraft || s == PipelineStatusPublished
}

// String returns the status as a string.
func (s PipelineStatus) String() string {
	return string(s)
}

// ParsePipelineStatus converts external text into a PipelineStatus, case-insensitively.
func ParsePipelineStatus(value string) (PipelineStatus, error) {
	status := PipelineStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", ErrUnknownPipelineStatus
	}
	return status, nil
}

// Pipeline represents a data pipeline definition.
type Pipeline struct {
	ID   uuid.UUID
	Name string
	// Description is free-form operator text.
	Description string
	// Configuration is the opaque pipeline definition; the engine does not
	// interpret it.
	Configuration string
	Status        PipelineStatus
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
