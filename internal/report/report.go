// Package report assembles and writes the run report.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-cli/internal/analytics"
	"github.com/sells-group/sales-cli/internal/model"
	"github.com/sells-group/sales-cli/pkg/products"
)

// Report is the full run output: validation counters, the KPI bundle, and
// the product metadata snapshot.
type Report struct {
	Validation model.ValidationStats        `json:"validation"`
	KPIs       analytics.KPIBundle          `json:"kpis"`
	Products   map[string]products.Metadata `json:"product_api_snapshot"`
}

// WriteJSON writes the report to path as indented JSON, creating parent
// directories as needed. The file appears atomically: content is written to a
// temp file in the target directory and renamed into place.
func WriteJSON(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return eris.Wrap(err, "report: create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()          //nolint:errcheck
		os.Remove(tmpName)   //nolint:errcheck
		return eris.Wrap(err, "report: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrap(err, "report: close temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrapf(err, "report: rename into %s", path)
	}
	return nil
}
