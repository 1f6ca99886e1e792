package models

import (
	"strconv"
	"strings"
)

// FormatNumber renders an ordinal for use in an abbreviation segment.
// Integral numbers print without a decimal point (1, not 1.0).
func FormatNumber(number float64) string {
	return strconv.FormatFloat(number, 'f', -1, 64)
}

// DeriveAbbreviation builds a child abbreviation from its parent's. A
// parent without an abbreviation yields an empty result; that is not an
// error, some chains legitimately lack one until the root is labeled.
func DeriveAbbreviation(parentAbbreviation string, number float64) string {
	if parentAbbreviation == "" {
		return ""
	}
	return parentAbbreviation + "." + FormatNumber(number)
}

// ReplaceLastSegment swaps the trailing dot-delimited segment of path for
// segment. Only the suffix changes; any manual edits to the upstream part
// of the string are preserved, which is why renumbering never re-derives
// from the live parent chain. An empty path stays empty, and a path with
// no dot is replaced whole.
func ReplaceLastSegment(path, segment string) string {
	if path == "" {
		return ""
	}
	idx := strings.LastIndex(path, ".")
	return path[:idx+1] + segment
}
