package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/inventory-cli/internal/model"
	"github.com/sells-group/inventory-cli/internal/resilience"
)

// scriptedEngine fails a set number of times per category before succeeding.
// failures of -1 mean the category never succeeds.
type scriptedEngine struct {
	failures map[string]int
	calls    map[string]int
}

func newScriptedEngine(failures map[string]int) *scriptedEngine {
	return &scriptedEngine{failures: failures, calls: map[string]int{}}
}

func (e *scriptedEngine) Name() string { return "scripted" }

func (e *scriptedEngine) Extract(_ context.Context, category string) (*model.Inventory, error) {
	e.calls[category]++
	remaining := e.failures[category]
	if remaining == -1 || e.calls[category] <= remaining {
		return nil, errors.New("engine unavailable")
	}
	return &model.Inventory{Items: []model.InventoryItem{{
		ItemType: "Phone", Manufacturer: "Acme", Name: category, SKU: "SKU-" + category, Supplier: model.DefaultSupplier,
	}}}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Policy: resilience.Policy{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Millisecond,
			Multiplier:   2.0,
		},
		OutDir: t.TempDir(),
		Prefix: "mobilesentrix",
		Now:    fixedClock(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)),
	}
}

func TestRunItem_SuccessAfterRetries(t *testing.T) {
	eng := newScriptedEngine(map[string]int{"Tablets": 2})
	r := New(eng, testOptions(t))

	inv, path, err := r.RunItem(context.Background(), "Tablets")
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 3, eng.calls["Tablets"])
	assert.FileExists(t, path)
	assert.Equal(t, "mobilesentrix_Tablets_20260829.json", filepath.Base(path))
}

func TestRunItem_ExhaustedRetries(t *testing.T) {
	eng := newScriptedEngine(map[string]int{"Tablets": -1})
	opts := testOptions(t)
	r := New(eng, opts)

	_, _, err := r.RunItem(context.Background(), "Tablets")
	require.Error(t, err)

	var exhausted *resilience.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, 3, eng.calls["Tablets"])

	// No artifact for a failed item.
	entries, readErr := os.ReadDir(opts.OutDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRunBatch_IsolatesFailures(t *testing.T) {
	// Tablets exhausts retries; the other two categories succeed.
	eng := newScriptedEngine(map[string]int{"Tablets": -1})
	opts := testOptions(t)
	r := New(eng, opts)

	categories := []string{"Cell Phones", "Tablets", "Computers"}
	sum := r.RunBatch(context.Background(), categories)

	assert.Equal(t, Summary{Total: 3, Succeeded: 2, Failed: 1}, sum)

	// Every item attempted despite the failure in the middle.
	for _, c := range categories {
		assert.Positive(t, eng.calls[c], "category %s must be attempted", c)
	}

	// Exactly two artifacts.
	entries, err := os.ReadDir(opts.OutDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := []string{entries[0].Name(), entries[1].Name()}
	assert.Contains(t, names, "mobilesentrix_Cell Phones_20260829.json")
	assert.Contains(t, names, "mobilesentrix_Computers_20260829.json")
}

func TestRunBatch_SameDayRerunOverwrites(t *testing.T) {
	eng := newScriptedEngine(nil)
	opts := testOptions(t)
	r := New(eng, opts)

	r.RunBatch(context.Background(), []string{"Computers"})
	r.RunBatch(context.Background(), []string{"Computers"})

	entries, err := os.ReadDir(opts.OutDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rerun on the same date overwrites, never accumulates")
}

func TestRunBatch_ItemDelayThrottles(t *testing.T) {
	eng := newScriptedEngine(nil)
	opts := testOptions(t)
	opts.ItemDelay = 30 * time.Millisecond
	r := New(eng, opts)

	start := time.Now()
	sum := r.RunBatch(context.Background(), []string{"A", "B", "C"})
	elapsed := time.Since(start)

	assert.Equal(t, 3, sum.Succeeded)
	// Two inter-item gaps of at least ItemDelay each.
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestRunBatch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := newScriptedEngine(nil)
	opts := testOptions(t)
	opts.ItemDelay = 10 * time.Millisecond
	r := New(eng, opts)

	sum := r.RunBatch(ctx, []string{"A", "B"})
	assert.Equal(t, 2, sum.Total)
	assert.Zero(t, sum.Succeeded)
}

func TestRunItem_RecordsHistory(t *testing.T) {
	st := &fakeStore{}
	eng := newScriptedEngine(map[string]int{"Tablets": 1})
	opts := testOptions(t)
	opts.Store = st
	r := New(eng, opts)

	_, _, err := r.RunItem(context.Background(), "Tablets")
	require.NoError(t, err)

	require.Len(t, st.completed, 1)
	assert.Equal(t, 2, st.completed[0].attempts)
	assert.Equal(t, 1, st.completed[0].items)
}

func TestRunItem_RecordsFailure(t *testing.T) {
	st := &fakeStore{}
	eng := newScriptedEngine(map[string]int{"Tablets": -1})
	opts := testOptions(t)
	opts.Store = st
	r := New(eng, opts)

	_, _, err := r.RunItem(context.Background(), "Tablets")
	require.Error(t, err)

	require.Len(t, st.failed, 1)
	assert.Equal(t, 3, st.failed[0].attempts)
	assert.Equal(t, model.ErrorCategoryPermanent, st.failed[0].category)
}
