package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-cli/internal/config"
	"github.com/sells-group/sales-cli/internal/model"
	"github.com/sells-group/sales-cli/internal/report"
	"github.com/sells-group/sales-cli/internal/store"
	"github.com/sells-group/sales-cli/pkg/products"
)

type stubProducts struct{}

func (stubProducts) GetProductInfo(context.Context, string) products.Metadata {
	return products.Metadata{"title": "stub"}
}

func testConfig() *config.Config {
	return &config.Config{
		Products:  config.ProductsConfig{Concurrency: 2},
		Analytics: config.AnalyticsConfig{TopN: 5, LowThreshold: 10},
	}
}

func writeTestFeed(t *testing.T) string {
	t.Helper()
	feed := "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region\n" +
		"T001|2024-01-01|P10|Widget|5|10.00|C001|North\n" +
		"T002|2024-01-01|P11|Gadget|3|20.00|C002|South\n" +
		"X003|2024-01-02|P12|Broken|1|5.00|C003|East\n"
	path := filepath.Join(t.TempDir(), "sales.txt")
	require.NoError(t, os.WriteFile(path, []byte(feed), 0o644))
	return path
}

func TestRunAnalyze_EndToEnd(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.json")
	opts := analyzeOptions{
		input:      writeTestFeed(t),
		reportPath: reportPath,
		client:     stubProducts{},
	}

	result, err := runAnalyze(context.Background(), testConfig(), opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Validation.TotalParsed)
	assert.Equal(t, 1, result.Validation.InvalidRemoved)
	assert.Equal(t, 2, result.Validation.ValidAfterCleaning)
	assert.Equal(t, 2, result.TotalOrders)
	assert.InDelta(t, 110.0, result.TotalRevenue, 1e-9)
	assert.Equal(t, 2, result.Products)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.InDelta(t, 110.0, rep.KPIs.TotalRevenue, 1e-9)
	assert.Equal(t, "stub", rep.Products["P10"]["title"])
}

func TestRunAnalyze_NoEnrich(t *testing.T) {
	opts := analyzeOptions{
		input:      writeTestFeed(t),
		reportPath: filepath.Join(t.TempDir(), "report.json"),
		noEnrich:   true,
	}

	result, err := runAnalyze(context.Background(), testConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Products)
}

func TestRunAnalyze_MissingInput(t *testing.T) {
	opts := analyzeOptions{
		input:      filepath.Join(t.TempDir(), "nope.txt"),
		reportPath: filepath.Join(t.TempDir(), "report.json"),
		noEnrich:   true,
	}

	_, err := runAnalyze(context.Background(), testConfig(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")
}

func TestRunAnalyze_RecordsRunHistory(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(ctx))

	opts := analyzeOptions{
		input:      writeTestFeed(t),
		reportPath: filepath.Join(t.TempDir(), "report.json"),
		noEnrich:   true,
		store:      st,
	}

	result, err := runAnalyze(ctx, testConfig(), opts)
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Result)
	assert.Equal(t, result.TotalOrders, runs[0].Result.TotalOrders)
}

func TestProductsClientFromConfig(t *testing.T) {
	client := productsClient(config.ProductsConfig{
		BaseURL:     "http://localhost:1", // never dialed in this test
		TimeoutSecs: 1,
		MaxRetries:  0,
		BackoffMs:   1,
		RatePerSec:  100,
	})
	require.NotNil(t, client)

	// Non-numeric id short-circuits before any network access.
	meta := client.GetProductInfo(context.Background(), "no-digits")
	assert.Empty(t, meta)
}
