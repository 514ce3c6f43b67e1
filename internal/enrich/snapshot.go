// Package enrich builds the id-to-metadata snapshot for the validated
// record set.
package enrich

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sales-cli/internal/model"
	"github.com/sells-group/sales-cli/pkg/products"
)

// DefaultConcurrency bounds parallel metadata lookups.
const DefaultConcurrency = 4

// DistinctProductIDs returns the sorted set of product ids present in the
// records.
func DistinctProductIDs(records []model.SalesRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.ProductID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildSnapshot looks up metadata for every distinct product id, concurrently
// up to the given bound. Ids are deduplicated first, so no id is requested
// twice within one snapshot; the client's memo cache guards reuse across
// calls. Lookups never fail, so the snapshot always covers every id.
func BuildSnapshot(ctx context.Context, client products.Client, records []model.SalesRecord, concurrency int) map[string]products.Metadata {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	ids := DistinctProductIDs(records)
	results := make([]products.Metadata, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i] = client.GetProductInfo(ctx, id)
			return nil
		})
	}
	_ = g.Wait() // lookups degrade to empty metadata, never error

	snapshot := make(map[string]products.Metadata, len(ids))
	for i, id := range ids {
		snapshot[id] = results[i]
	}

	zap.L().Info("enrichment snapshot built", zap.Int("products", len(snapshot)))
	return snapshot
}
