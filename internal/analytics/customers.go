package analytics

import (
	"sort"

	"github.com/sells-group/sales-cli/internal/model"
)

// CustomerProfile aggregates one customer's purchase pattern.
type CustomerProfile struct {
	CustomerID     string   `json:"customer_id"`
	TotalSpent     float64  `json:"total_spent"`
	PurchaseCount  int      `json:"purchase_count"`
	AvgOrderValue  float64  `json:"avg_order_value"`
	ProductsBought []string `json:"products_bought"`
}

// CustomerAnalysis aggregates spend, purchase count, average order value, and
// the sorted unique product list per customer, ranked by total spend
// descending. Ties keep first-seen order.
func CustomerAnalysis(records []model.SalesRecord) []CustomerProfile {
	idx := newGroupIndex()
	var spends []float64
	var counts []int
	var products []map[string]struct{}

	for _, r := range records {
		i := idx.index(r.CustomerID)
		if i == len(spends) {
			spends = append(spends, 0)
			counts = append(counts, 0)
			products = append(products, make(map[string]struct{}))
		}
		spends[i] += r.Revenue()
		counts[i]++
		products[i][r.ProductName] = struct{}{}
	}

	out := make([]CustomerProfile, 0, len(idx.keys))
	for _, i := range rankDesc(spends) {
		avg := 0.0
		if counts[i] > 0 {
			avg = spends[i] / float64(counts[i])
		}
		bought := make([]string, 0, len(products[i]))
		for p := range products[i] {
			bought = append(bought, p)
		}
		sort.Strings(bought)

		out = append(out, CustomerProfile{
			CustomerID:     idx.keys[i],
			TotalSpent:     round2(spends[i]),
			PurchaseCount:  counts[i],
			AvgOrderValue:  round2(avg),
			ProductsBought: bought,
		})
	}
	return out
}
