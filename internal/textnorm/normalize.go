// Package textnorm cleans free-text search input before it reaches the filter engine.
package textnorm

import (
	"strings"
)

// Normalize collapses every run of whitespace in s into a single space and trims both ends.
// For example, "  முருகன்\t  குமார் " becomes "முருகன் குமார்".
// It does no case folding; Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsBlank reports whether s normalizes to the empty string.
func IsBlank(s string) bool {
	return len(strings.Fields(s)) == 0
}
