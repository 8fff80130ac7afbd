// Package store persists run history for scrape batches. It is optional:
// when no driver is configured the pipeline keeps no state beyond the output
// artifacts.
package store

import (
	"context"

	"github.com/sells-group/inventory-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Category string          `json:"category,omitempty"`
	Limit    int             `json:"limit,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, category string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, attempts, items int, artifactPath string) error
	FailRun(ctx context.Context, runID string, attempts int, category model.ErrorCategory, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
