package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sales-cli/internal/analytics"
	"github.com/sells-group/sales-cli/internal/config"
	"github.com/sells-group/sales-cli/internal/enrich"
	"github.com/sells-group/sales-cli/internal/ingest"
	"github.com/sells-group/sales-cli/internal/model"
	"github.com/sells-group/sales-cli/internal/report"
	"github.com/sells-group/sales-cli/internal/resilience"
	"github.com/sells-group/sales-cli/internal/store"
	"github.com/sells-group/sales-cli/pkg/products"
)

var (
	analyzeInput    string
	analyzeReport   string
	analyzeNoEnrich bool
	analyzeNoStore  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a sales feed and write the JSON report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		opts := analyzeOptions{
			input:      cfg.Ingest.Input,
			reportPath: cfg.Report.Path,
			noEnrich:   analyzeNoEnrich,
		}
		if analyzeInput != "" {
			opts.input = analyzeInput
		}
		if analyzeReport != "" {
			opts.reportPath = analyzeReport
		}

		if !analyzeNoStore {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			opts.store = st
		}

		result, err := runAnalyze(ctx, cfg, opts)
		if err != nil {
			return err
		}

		fmt.Printf("Total records parsed: %d\n", result.Validation.TotalParsed)
		fmt.Printf("Invalid records removed: %d\n", result.Validation.InvalidRemoved)
		fmt.Printf("Valid records after cleaning: %d\n", result.Validation.ValidAfterCleaning)
		fmt.Printf("\nReport written to: %s\n", result.ReportPath)
		return nil
	},
}

// analyzeOptions carries the resolved inputs of one analysis run. client and
// store may be nil: a nil client is built from config, a nil store disables
// run bookkeeping.
type analyzeOptions struct {
	input      string
	reportPath string
	noEnrich   bool
	client     products.Client
	store      store.Store
}

// runAnalyze executes the full pipeline: ingest, aggregate, enrich, report.
// The missing input file is the one fatal condition; everything downstream
// degrades to counters or empty metadata.
func runAnalyze(ctx context.Context, cfg *config.Config, opts analyzeOptions) (*model.RunResult, error) {
	if _, err := os.Stat(opts.input); err != nil {
		return nil, eris.Wrapf(err, "input file not found: %s", opts.input)
	}

	var run *model.Run
	if opts.store != nil {
		r, err := opts.store.CreateRun(ctx, opts.input)
		if err != nil {
			zap.L().Warn("run bookkeeping unavailable", zap.Error(err))
		} else {
			run = r
		}
	}

	result, err := analyze(ctx, cfg, opts)
	if run != nil {
		if err != nil {
			if ferr := opts.store.FailRun(ctx, run.ID); ferr != nil {
				zap.L().Warn("mark run failed", zap.Error(ferr))
			}
		} else if cerr := opts.store.CompleteRun(ctx, run.ID, result); cerr != nil {
			zap.L().Warn("mark run complete", zap.Error(cerr))
		}
	}
	return result, err
}

func analyze(ctx context.Context, cfg *config.Config, opts analyzeOptions) (*model.RunResult, error) {
	records, stats, err := ingest.Load(opts.input)
	if err != nil {
		return nil, err
	}

	kpis := analytics.Compute(records)

	logSecondaryCuts(cfg, records)

	snapshot := map[string]products.Metadata{}
	if !opts.noEnrich {
		client := opts.client
		if client == nil {
			client = productsClient(cfg.Products)
		}
		snapshot = enrich.BuildSnapshot(ctx, client, records, cfg.Products.Concurrency)
	}

	rep := &report.Report{
		Validation: stats,
		KPIs:       kpis,
		Products:   snapshot,
	}
	if err := report.WriteJSON(rep, opts.reportPath); err != nil {
		return nil, err
	}

	zap.L().Info("analysis complete",
		zap.String("input", opts.input),
		zap.String("report", opts.reportPath),
		zap.Int("orders", kpis.TotalOrders),
		zap.Float64("total_revenue", kpis.TotalRevenue),
	)

	return &model.RunResult{
		InputPath:    opts.input,
		ReportPath:   opts.reportPath,
		Validation:   stats,
		TotalOrders:  kpis.TotalOrders,
		TotalRevenue: kpis.TotalRevenue,
		Products:     len(snapshot),
	}, nil
}

// logSecondaryCuts surfaces the product and date cuts that are not part of
// the report document.
func logSecondaryCuts(cfg *config.Config, records []model.SalesRecord) {
	if len(records) == 0 {
		return
	}

	peak := analytics.PeakSalesDay(records)
	zap.L().Info("peak sales day",
		zap.String("date", peak.Date),
		zap.Float64("revenue", peak.Revenue),
		zap.Int("transactions", peak.TransactionCount),
	)

	for _, p := range analytics.TopSellingProducts(records, cfg.Analytics.TopN) {
		zap.L().Debug("top seller",
			zap.String("product", p.ProductName),
			zap.Int("quantity", p.TotalQuantity),
			zap.Float64("revenue", p.TotalRevenue),
		)
	}
	for _, p := range analytics.LowPerformingProducts(records, cfg.Analytics.LowThreshold) {
		zap.L().Debug("low performer",
			zap.String("product", p.ProductName),
			zap.Int("quantity", p.TotalQuantity),
			zap.Float64("revenue", p.TotalRevenue),
		)
	}
}

// productsClient builds the metadata client from config.
func productsClient(pc config.ProductsConfig) products.Client {
	retry := resilience.DefaultRetryConfig()
	if pc.MaxRetries >= 0 {
		retry.MaxAttempts = pc.MaxRetries + 1
	}
	if pc.BackoffMs > 0 {
		retry.InitialBackoff = time.Duration(pc.BackoffMs) * time.Millisecond
	}
	retry.ShouldRetry = func(error) bool { return true }
	retry.OnRetry = resilience.RetryLogger("products", "get_product_info")

	timeout := 10 * time.Second
	if pc.TimeoutSecs > 0 {
		timeout = time.Duration(pc.TimeoutSecs) * time.Second
	}

	opts := []products.Option{
		products.WithRetryConfig(retry),
		products.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if pc.BaseURL != "" {
		opts = append(opts, products.WithBaseURL(pc.BaseURL))
	}
	if pc.RatePerSec > 0 {
		opts = append(opts, products.WithRateLimit(pc.RatePerSec, int(pc.RatePerSec)))
	}
	return products.NewClient(opts...)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "path to sales data file (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "output report path (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoEnrich, "no-enrich", false, "skip product metadata enrichment")
	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "skip run-history bookkeeping")
	rootCmd.AddCommand(analyzeCmd)
}
