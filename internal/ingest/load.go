package ingest

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sales-cli/internal/model"
)

// Load reads the sales feed at path and runs it through the full ingest
// stage: decode, parse, validate. An unreadable file is the only error; all
// other anomalies degrade to counters in the returned stats.
func Load(path string) ([]model.SalesRecord, model.ValidationStats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, model.ValidationStats{}, eris.Wrapf(err, "ingest: read %s", path)
	}

	text := Decode(raw)
	rows := ParseLines(text)

	zap.L().Debug("feed parsed",
		zap.String("path", path),
		zap.Int("bytes", len(raw)),
		zap.Int("rows", len(rows)),
	)

	records, stats := ValidateRows(rows)
	return records, stats, nil
}
