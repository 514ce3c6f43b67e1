package analytics

import (
	"sort"

	"github.com/sells-group/sales-cli/internal/model"
)

// DailySales aggregates one day's revenue, transaction count, and distinct
// customer count.
type DailySales struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
	UniqueCustomers  int     `json:"unique_customers"`
}

// PeakDay is the highest-revenue day of the record set.
type PeakDay struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
}

// DailySalesTrend groups records by date string, ascending lexicographically.
func DailySalesTrend(records []model.SalesRecord) []DailySales {
	idx := newGroupIndex()
	var revenues []float64
	var counts []int
	var customers []map[string]struct{}

	for _, r := range records {
		i := idx.index(r.Date)
		if i == len(revenues) {
			revenues = append(revenues, 0)
			counts = append(counts, 0)
			customers = append(customers, make(map[string]struct{}))
		}
		revenues[i] += r.Revenue()
		counts[i]++
		customers[i][r.CustomerID] = struct{}{}
	}

	out := make([]DailySales, len(idx.keys))
	for i, date := range idx.keys {
		out[i] = DailySales{
			Date:             date,
			Revenue:          round2(revenues[i]),
			TransactionCount: counts[i],
			UniqueCustomers:  len(customers[i]),
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out
}

// PeakSalesDay returns the date with the highest revenue. When several dates
// share the maximum, the lexicographically smallest wins. Empty input yields
// the zero value.
func PeakSalesDay(records []model.SalesRecord) PeakDay {
	daily := DailySalesTrend(records)
	if len(daily) == 0 {
		return PeakDay{}
	}

	best := daily[0]
	for _, d := range daily[1:] {
		// Strictly greater: the trend is sorted ascending by date, so the
		// earliest date among equals is kept.
		if d.Revenue > best.Revenue {
			best = d
		}
	}
	return PeakDay{Date: best.Date, Revenue: best.Revenue, TransactionCount: best.TransactionCount}
}
