package runner

import (
	"context"
	"fmt"

	"github.com/sells-group/inventory-cli/internal/model"
	"github.com/sells-group/inventory-cli/internal/store"
)

// fakeStore records store calls in memory for assertions.
type fakeStore struct {
	created   []string
	completed []completedRun
	failed    []failedRun
}

type completedRun struct {
	runID        string
	attempts     int
	items        int
	artifactPath string
}

type failedRun struct {
	runID    string
	attempts int
	category model.ErrorCategory
	cause    string
}

func (f *fakeStore) CreateRun(_ context.Context, category string) (*model.Run, error) {
	f.created = append(f.created, category)
	return &model.Run{ID: fmt.Sprintf("run-%d", len(f.created)), Category: category, Status: model.RunStatusRunning}, nil
}

func (f *fakeStore) CompleteRun(_ context.Context, runID string, attempts, items int, artifactPath string) error {
	f.completed = append(f.completed, completedRun{runID, attempts, items, artifactPath})
	return nil
}

func (f *fakeStore) FailRun(_ context.Context, runID string, attempts int, category model.ErrorCategory, cause string) error {
	f.failed = append(f.failed, failedRun{runID, attempts, category, cause})
	return nil
}

func (f *fakeStore) GetRun(_ context.Context, runID string) (*model.Run, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeStore) ListRuns(_ context.Context, _ store.RunFilter) ([]model.Run, error) {
	return nil, nil
}

func (f *fakeStore) Migrate(_ context.Context) error { return nil }

func (f *fakeStore) Close() error { return nil }
