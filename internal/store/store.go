// Package store persists run-level bookkeeping. Sales records themselves are
// never stored; a run row holds only the summary of a completed analysis.
package store

import (
	"context"

	"github.com/sells-group/sales-cli/internal/model"
)

// Store defines the run-history persistence interface.
type Store interface {
	CreateRun(ctx context.Context, inputPath string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
