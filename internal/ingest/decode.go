// Package ingest loads, decodes, parses, and validates the pipe-delimited
// sales feed. Decoding never fails: malformed input degrades to replacement
// characters rather than aborting the run.
package ingest

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cp1252Undefined are the byte values Windows-1252 leaves unassigned. Their
// presence means the stream is not valid cp1252 and we fall through to Latin-1.
var cp1252Undefined = [...]byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

// Decode converts raw feed bytes to a string, trying encodings in priority
// order: UTF-8 with BOM, plain UTF-8, Windows-1252, Latin-1. Latin-1 assigns
// every byte, so the last step cannot fail.
func Decode(raw []byte) string {
	if bytes.HasPrefix(raw, utf8BOM) {
		stripped := raw[len(utf8BOM):]
		if utf8.Valid(stripped) {
			return string(stripped)
		}
		raw = stripped
	} else if utf8.Valid(raw) {
		return string(raw)
	}

	if !containsCP1252Undefined(raw) {
		if out, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
			return string(out)
		}
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// Unreachable: ISO 8859-1 decodes every byte. Kept as a guard so a
		// decoder change can never abort ingestion.
		return string(bytes.ToValidUTF8(raw, []byte("�")))
	}
	return string(out)
}

func containsCP1252Undefined(raw []byte) bool {
	for _, b := range cp1252Undefined {
		if bytes.IndexByte(raw, b) >= 0 {
			return true
		}
	}
	return false
}
