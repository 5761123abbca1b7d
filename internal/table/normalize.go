package table

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeRegionName canonicalizes a state or district name for use
// as a grouping key: surrounding whitespace is stripped and the string
// is put into Unicode NFC form.
//
// NFC matters because region names arrive from multiple upstream
// sources: the same name can be encoded with composed or decomposed
// code points, and a byte-level difference would silently split one
// region into two during aggregation.
//
// Semantic cleaning (casing, spelling harmonization) belongs to the
// upstream cleaning stage, not here.
func NormalizeRegionName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
