package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-cli/internal/analytics"
	"github.com/sells-group/sales-cli/internal/model"
	"github.com/sells-group/sales-cli/pkg/products"
)

func sampleReport() *Report {
	return &Report{
		Validation: model.ValidationStats{
			TotalParsed:        4,
			InvalidRemoved:     1,
			ValidAfterCleaning: 3,
		},
		KPIs: analytics.KPIBundle{
			TotalOrders:   3,
			TotalRevenue:  110.0,
			AvgOrderValue: 36.67,
		},
		Products: map[string]products.Metadata{
			"P1": {"title": "Widget"},
			"P2": {},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Contains(t, got, "validation")
	assert.Contains(t, got, "kpis")
	assert.Contains(t, got, "product_api_snapshot")
}

func TestWriteJSON_CreatesParentDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deep", "report.json")
	require.NoError(t, WriteJSON(sampleReport(), path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteJSON_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, WriteJSON(sampleReport(), path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestWriteJSON_RoundTripsCounters(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 4, got.Validation.TotalParsed)
	assert.Equal(t, 1, got.Validation.InvalidRemoved)
	assert.Equal(t, 3, got.Validation.ValidAfterCleaning)
	assert.InDelta(t, 110.0, got.KPIs.TotalRevenue, 1e-9)
}

func TestWriteJSON_OverwritesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, WriteJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
