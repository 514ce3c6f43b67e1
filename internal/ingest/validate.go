package ingest

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/sales-cli/internal/model"
)

// RejectReason classifies why a parsed row failed validation.
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectTransactionID RejectReason = "bad_transaction_id"
	RejectMissingIDs    RejectReason = "missing_customer_or_region"
	RejectQuantity      RejectReason = "bad_quantity"
	RejectUnitPrice     RejectReason = "bad_unit_price"
)

// ValidateRow applies the business rules to one row, in order, first failure
// wins. On success it returns the immutable SalesRecord with numeric fields
// coerced and commas stripped from the product name.
func ValidateRow(row Row) (model.SalesRecord, RejectReason, bool) {
	tid := strings.TrimSpace(row.TransactionID)
	if !strings.HasPrefix(tid, "T") {
		return model.SalesRecord{}, RejectTransactionID, false
	}

	customerID := strings.TrimSpace(row.CustomerID)
	region := strings.TrimSpace(row.Region)
	if customerID == "" || region == "" {
		return model.SalesRecord{}, RejectMissingIDs, false
	}

	qty, err := strconv.Atoi(cleanNumber(row.Quantity))
	if err != nil || qty <= 0 {
		return model.SalesRecord{}, RejectQuantity, false
	}

	price, err := strconv.ParseFloat(cleanNumber(row.UnitPrice), 64)
	if err != nil || price <= 0 {
		return model.SalesRecord{}, RejectUnitPrice, false
	}

	return model.SalesRecord{
		TransactionID: tid,
		Date:          strings.TrimSpace(row.Date),
		ProductID:     strings.TrimSpace(row.ProductID),
		ProductName:   cleanProductName(row.ProductName),
		Quantity:      qty,
		UnitPrice:     price,
		CustomerID:    customerID,
		Region:        region,
	}, RejectNone, true
}

// ValidateRows validates every row, returning the accepted records and the
// three counters the ingest stage is contractually required to report. Rejected
// rows are counted per reason and dropped, never partially recorded.
func ValidateRows(rows []Row) ([]model.SalesRecord, model.ValidationStats) {
	records := make([]model.SalesRecord, 0, len(rows))
	reasons := make(map[RejectReason]int)

	for _, row := range rows {
		rec, reason, ok := ValidateRow(row)
		if !ok {
			reasons[reason]++
			continue
		}
		records = append(records, rec)
	}

	stats := model.ValidationStats{
		TotalParsed:        len(rows),
		InvalidRemoved:     len(rows) - len(records),
		ValidAfterCleaning: len(records),
	}

	zap.L().Info("validation complete",
		zap.Int("total_parsed", stats.TotalParsed),
		zap.Int("invalid_removed", stats.InvalidRemoved),
		zap.Int("valid_after_cleaning", stats.ValidAfterCleaning),
	)
	for reason, n := range reasons {
		zap.L().Debug("rows rejected", zap.String("reason", string(reason)), zap.Int("count", n))
	}

	return records, stats
}

// cleanNumber strips thousands-separator commas and surrounding whitespace so
// locale-formatted values like "1,200" parse.
func cleanNumber(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

// cleanProductName applies the same comma stripping to product names, keeping
// grouping keys consistent with the numeric normalization.
func cleanProductName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}
