package ingest

import "strings"

const (
	delimiter   = "|"
	fieldCount  = 8
	headerField = "TransactionID"
)

// Row is one structurally normalized line of the feed: exactly eight string
// fields, trimmed, with no content validation applied.
type Row struct {
	TransactionID string
	Date          string
	ProductID     string
	ProductName   string
	Quantity      string
	UnitPrice     string
	CustomerID    string
	Region        string
}

// ParseLine splits one line of the feed into a Row. It returns ok=false for
// blank lines and for a header row whose first field is the transaction-id
// column name.
//
// Lines with more than eight fields are assumed to carry delimiter characters
// inside the product name: the first three and last four fields map directly,
// and everything between is rejoined to reconstruct the name. Lines with fewer
// than eight fields are padded with empty strings so validation can reject
// them uniformly instead of the parser failing.
func ParseLine(line string) (Row, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Row{}, false
	}

	parts := strings.Split(line, delimiter)
	if strings.TrimSpace(parts[0]) == headerField {
		return Row{}, false
	}

	if len(parts) > fieldCount {
		name := strings.Join(parts[3:len(parts)-4], delimiter)
		tail := parts[len(parts)-4:]
		parts = []string{parts[0], parts[1], parts[2], name, tail[0], tail[1], tail[2], tail[3]}
	}
	for len(parts) < fieldCount {
		parts = append(parts, "")
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return Row{
		TransactionID: parts[0],
		Date:          parts[1],
		ProductID:     parts[2],
		ProductName:   parts[3],
		Quantity:      parts[4],
		UnitPrice:     parts[5],
		CustomerID:    parts[6],
		Region:        parts[7],
	}, true
}

// ParseLines parses every line of decoded feed text, dropping blanks and the
// header row.
func ParseLines(text string) []Row {
	var rows []Row
	for _, line := range strings.Split(text, "\n") {
		if row, ok := ParseLine(line); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
