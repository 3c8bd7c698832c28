// Package format holds small display helpers shared by the daemons'
// row builders and notifications.
package format

import (
	"strings"
)

// CleanPreview collapses an entry preview into a single display line:
// newlines and tabs become spaces, surrounding whitespace is trimmed.
func CleanPreview(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return s
}

// TruncateChars limits a string to max runes, appending "..." when it
// was cut. Counts runes, not bytes, so multibyte previews don't split.
func TruncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// PreviewLine combines CleanPreview and TruncateChars, the usual shape
// for a list row title.
func PreviewLine(s string, max int) string {
	return TruncateChars(CleanPreview(s), max)
}
