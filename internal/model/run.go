package model

import "time"

// RunStatus is the lifecycle state of one work-item run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ErrorCategory classifies a terminal failure for reporting.
type ErrorCategory string

const (
	ErrorCategoryTransient ErrorCategory = "transient"
	ErrorCategoryPermanent ErrorCategory = "permanent"
)

// Run records the outcome of processing one category in a batch. Runs are
// only persisted when a store is configured; the default deployment keeps no
// state beyond the output artifacts.
type Run struct {
	ID            string        `json:"id"`
	Category      string        `json:"category"`
	Status        RunStatus     `json:"status"`
	Attempts      int           `json:"attempts"`
	Items         int           `json:"items"`
	ArtifactPath  string        `json:"artifact_path,omitempty"`
	Error         string        `json:"error,omitempty"`
	ErrorCategory ErrorCategory `json:"error_category,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
