package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleResult() *model.RunResult {
	return &model.RunResult{
		InputPath:    "data/sales_data.txt",
		ReportPath:   "reports/report.json",
		Validation:   model.ValidationStats{TotalParsed: 4, InvalidRemoved: 1, ValidAfterCleaning: 3},
		TotalOrders:  3,
		TotalRevenue: 110.0,
		Products:     2,
	}
}

func TestCreateRun(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "data/sales_data.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "data/sales_data.txt", run.InputPath)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Nil(t, run.Result)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.RunStatusRunning, got.Status)
}

func TestCompleteRun(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "data/sales_data.txt")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, run.ID, sampleResult()))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 3, got.Result.TotalOrders)
	assert.InDelta(t, 110.0, got.Result.TotalRevenue, 1e-9)
	assert.Equal(t, 1, got.Result.Validation.InvalidRemoved)
}

func TestCompleteRun_UnknownID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := s.CompleteRun(context.Background(), "no-such-run", sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFailRun(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "data/sales_data.txt")
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Nil(t, got.Result)
}

func TestGetRun_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRuns(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := s.CreateRun(ctx, "data/sales_data.txt")
		require.NoError(t, err)
		ids = append(ids, run.ID)
		time.Sleep(2 * time.Millisecond) // distinct created_at ordering
	}

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Newest first.
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)
}

func TestListRuns_Limit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.CreateRun(ctx, "data/sales_data.txt")
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListRuns_Empty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
