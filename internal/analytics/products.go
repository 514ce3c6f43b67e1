package analytics

import (
	"sort"

	"github.com/sells-group/sales-cli/internal/model"
)

// ProductPerformance aggregates one product's total quantity and revenue.
type ProductPerformance struct {
	ProductName   string  `json:"product_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

func productPerformance(records []model.SalesRecord) []ProductPerformance {
	idx := newGroupIndex()
	var quantities []int
	var revenues []float64

	for _, r := range records {
		i := idx.index(r.ProductName)
		if i == len(quantities) {
			quantities = append(quantities, 0)
			revenues = append(revenues, 0)
		}
		quantities[i] += r.Quantity
		revenues[i] += r.Revenue()
	}

	out := make([]ProductPerformance, len(idx.keys))
	for i, name := range idx.keys {
		out[i] = ProductPerformance{
			ProductName:   name,
			TotalQuantity: quantities[i],
			TotalRevenue:  round2(revenues[i]),
		}
	}
	return out
}

// TopSellingProducts ranks products by total quantity sold, descending, and
// returns at most n entries. Ties keep first-seen order.
func TopSellingProducts(records []model.SalesRecord, n int) []ProductPerformance {
	out := productPerformance(records)
	sort.SliceStable(out, func(a, b int) bool { return out[a].TotalQuantity > out[b].TotalQuantity })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// LowPerformingProducts returns products whose total quantity sold is below
// threshold, ascending by quantity. Ties keep first-seen order.
func LowPerformingProducts(records []model.SalesRecord, threshold int) []ProductPerformance {
	all := productPerformance(records)
	out := make([]ProductPerformance, 0, len(all))
	for _, p := range all {
		if p.TotalQuantity < threshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].TotalQuantity < out[b].TotalQuantity })
	return out
}
