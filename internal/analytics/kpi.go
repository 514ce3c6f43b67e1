// Package analytics computes deterministic KPIs from the validated record
// set. All functions are pure: they never mutate their input, and for a fixed
// input ordering they produce identical output, including tie-breaks.
//
// Dates are treated as opaque sortable strings. Chronological correctness
// depends on the feed using one consistent, lexicographically sortable format
// (ISO 8601 in practice); the package does not parse or enforce it.
package analytics

import (
	"math"
	"sort"

	"github.com/sells-group/sales-cli/internal/model"
)

// TopN is the ranking depth for the KPI bundle's product and customer lists.
const TopN = 5

// RegionSales is one region's slice of total revenue, ordered by the bundle.
type RegionSales struct {
	Region           string  `json:"region"`
	TotalSales       float64 `json:"total_sales"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

// ProductRevenue is one entry of the top-products ranking.
type ProductRevenue struct {
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
}

// CustomerSpend is one entry of the top-customers ranking.
type CustomerSpend struct {
	CustomerID string  `json:"customer_id"`
	Spend      float64 `json:"spend"`
}

// DailyRevenue is one day's revenue, ordered ascending by date string.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// KPIBundle is the read-only aggregate computed once per run. Ordered
// sections are slices, not maps, so serialization order is part of the value.
type KPIBundle struct {
	TotalOrders          int              `json:"total_orders"`
	TotalRevenue         float64          `json:"total_revenue"`
	AvgOrderValue        float64          `json:"avg_order_value"`
	RevenueByRegion      []RegionSales    `json:"revenue_by_region"`
	TopProductsByRevenue []ProductRevenue `json:"top_products_by_revenue"`
	TopCustomersBySpend  []CustomerSpend  `json:"top_customers_by_spend"`
	RepeatCustomersCount int              `json:"repeat_customers_count"`
	DailyRevenue         []DailyRevenue   `json:"daily_revenue"`
}

// Compute builds the KPI bundle from the accepted records.
func Compute(records []model.SalesRecord) KPIBundle {
	totalOrders := len(records)

	var rawTotal float64
	for _, r := range records {
		rawTotal += r.Revenue()
	}
	avg := 0.0
	if totalOrders > 0 {
		avg = rawTotal / float64(totalOrders)
	}

	return KPIBundle{
		TotalOrders:          totalOrders,
		TotalRevenue:         round2(rawTotal),
		AvgOrderValue:        round2(avg),
		RevenueByRegion:      regionSales(records, round2(rawTotal)),
		TopProductsByRevenue: topProductsByRevenue(records, TopN),
		TopCustomersBySpend:  topCustomersBySpend(records, TopN),
		RepeatCustomersCount: repeatCustomers(records),
		DailyRevenue:         dailyRevenue(records),
	}
}

func regionSales(records []model.SalesRecord, totalRevenue float64) []RegionSales {
	idx := newGroupIndex()
	var totals []float64
	var counts []int

	for _, r := range records {
		i := idx.index(r.Region)
		if i == len(totals) {
			totals = append(totals, 0)
			counts = append(counts, 0)
		}
		totals[i] += r.Revenue()
		counts[i]++
	}

	// Rank on raw sums; rounding happens only at output, so sub-cent
	// differences still order the ranking.
	out := make([]RegionSales, 0, len(idx.keys))
	for _, i := range rankDesc(totals) {
		pct := 0.0
		if totalRevenue != 0 {
			pct = totals[i] / totalRevenue * 100.0
		}
		out = append(out, RegionSales{
			Region:           idx.keys[i],
			TotalSales:       round2(totals[i]),
			TransactionCount: counts[i],
			Percentage:       round2(pct),
		})
	}
	return out
}

func topProductsByRevenue(records []model.SalesRecord, n int) []ProductRevenue {
	idx := newGroupIndex()
	var totals []float64

	for _, r := range records {
		i := idx.index(r.ProductName)
		if i == len(totals) {
			totals = append(totals, 0)
		}
		totals[i] += r.Revenue()
	}

	out := make([]ProductRevenue, 0, len(idx.keys))
	for _, i := range rankDesc(totals) {
		out = append(out, ProductRevenue{ProductName: idx.keys[i], Revenue: round2(totals[i])})
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topCustomersBySpend(records []model.SalesRecord, n int) []CustomerSpend {
	idx := newGroupIndex()
	var totals []float64

	for _, r := range records {
		i := idx.index(r.CustomerID)
		if i == len(totals) {
			totals = append(totals, 0)
		}
		totals[i] += r.Revenue()
	}

	out := make([]CustomerSpend, 0, len(idx.keys))
	for _, i := range rankDesc(totals) {
		out = append(out, CustomerSpend{CustomerID: idx.keys[i], Spend: round2(totals[i])})
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func repeatCustomers(records []model.SalesRecord) int {
	orders := make(map[string]int)
	for _, r := range records {
		orders[r.CustomerID]++
	}
	count := 0
	for _, n := range orders {
		if n >= 2 {
			count++
		}
	}
	return count
}

func dailyRevenue(records []model.SalesRecord) []DailyRevenue {
	idx := newGroupIndex()
	var totals []float64

	for _, r := range records {
		i := idx.index(r.Date)
		if i == len(totals) {
			totals = append(totals, 0)
		}
		totals[i] += r.Revenue()
	}

	out := make([]DailyRevenue, len(idx.keys))
	for i, date := range idx.keys {
		out[i] = DailyRevenue{Date: date, Revenue: round2(totals[i])}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out
}

// rankDesc returns group positions ordered by raw total descending. The
// stable sort keeps first-seen order on exact ties.
func rankDesc(totals []float64) []int {
	order := make([]int, len(totals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return totals[order[a]] > totals[order[b]] })
	return order
}

// groupIndex assigns stable first-seen positions to group keys, so ordered
// accumulation does not depend on map iteration order.
type groupIndex struct {
	pos  map[string]int
	keys []string
}

func newGroupIndex() *groupIndex {
	return &groupIndex{pos: make(map[string]int)}
}

func (g *groupIndex) index(key string) int {
	if i, ok := g.pos[key]; ok {
		return i
	}
	i := len(g.keys)
	g.pos[key] = i
	g.keys = append(g.keys, key)
	return i
}

// round2 rounds to two decimal places, half away from zero. Every reported
// money figure goes through this one function.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
