// Package model holds the core data types shared across the pipeline.
package model

import "time"

// SalesRecord is a validated sales transaction. Records are created once by
// the ingest validator and never mutated afterwards.
type SalesRecord struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"`
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	CustomerID    string  `json:"customer_id"`
	Region        string  `json:"region"`
}

// Revenue returns the transaction value: quantity times unit price.
func (r SalesRecord) Revenue() float64 {
	return float64(r.Quantity) * r.UnitPrice
}

// ValidationStats counts the outcome of the ingest stage. The invariant
// InvalidRemoved = TotalParsed - ValidAfterCleaning always holds.
type ValidationStats struct {
	TotalParsed        int `json:"total_parsed"`
	InvalidRemoved     int `json:"invalid_removed"`
	ValidAfterCleaning int `json:"valid_after_cleaning"`
}

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunResult summarizes a completed analysis run. Individual sales records
// are never persisted; only this run-level summary is.
type RunResult struct {
	InputPath    string          `json:"input_path"`
	ReportPath   string          `json:"report_path"`
	Validation   ValidationStats `json:"validation"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue float64         `json:"total_revenue"`
	Products     int             `json:"products_enriched"`
}

// Run represents a single analysis run.
type Run struct {
	ID        string     `json:"id"`
	InputPath string     `json:"input_path"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
