package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/inventory-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "https://example.com/cell-phones")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "https://example.com/cell-phones", got.Category)
	assert.Empty(t, got.ArtifactPath)
	assert.Empty(t, got.Error)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_CompleteRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Tablets")
	require.NoError(t, err)

	require.NoError(t, st.CompleteRun(ctx, run.ID, 2, 17, "/out/mobilesentrix_Tablets_20260829.json"))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, 17, got.Items)
	assert.Equal(t, "/out/mobilesentrix_Tablets_20260829.json", got.ArtifactPath)
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Computers")
	require.NoError(t, err)

	require.NoError(t, st.FailRun(ctx, run.ID, 3, model.ErrorCategoryTransient, "retries exhausted after 3 attempts: 503"))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, model.ErrorCategoryTransient, got.ErrorCategory)
	assert.Contains(t, got.Error, "exhausted")
}

func TestSQLite_ListRuns_Filters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, "Cell Phones")
	require.NoError(t, err)
	b, err := st.CreateRun(ctx, "Tablets")
	require.NoError(t, err)
	require.NoError(t, st.CompleteRun(ctx, a.ID, 1, 5, "/out/a.json"))
	require.NoError(t, st.FailRun(ctx, b.ID, 3, model.ErrorCategoryPermanent, "boom"))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, b.ID, failed[0].ID)

	tablets, err := st.ListRuns(ctx, RunFilter{Category: "Tablets"})
	require.NoError(t, err)
	require.Len(t, tablets, 1)
	assert.Equal(t, b.ID, tablets[0].ID)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestBuildListQuery_Placeholders(t *testing.T) {
	query, args := buildListQuery(RunFilter{Status: model.RunStatusFailed, Category: "Tablets", Limit: 10}, "$")
	assert.Contains(t, query, "status = $1")
	assert.Contains(t, query, "category = $2")
	assert.Contains(t, query, "LIMIT $3")
	assert.Len(t, args, 3)

	query, args = buildListQuery(RunFilter{}, "?")
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "LIMIT ?")
	require.Len(t, args, 1)
	assert.Equal(t, 50, args[0])
}
