package layout

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into rows greedily: words are added to the current row
// while the measured row stays within width. A word that is wider than
// width on its own gets a row to itself. Runs of whitespace collapse to a
// single space.
func Wrap(text string, width float64, measure func(string) float64) []string {
	var rows []string
	row := ""
	for _, w := range strings.Fields(text) {
		candidate := w
		if row != "" {
			candidate = row + " " + w
		}
		if measure(candidate) <= width {
			row = candidate
			continue
		}
		if row != "" {
			rows = append(rows, row)
		}
		row = w
	}
	if row != "" {
		rows = append(rows, row)
	}
	return rows
}

const ellipsis = "…"

// truncate shortens s rune by rune until format(s) fits width, marking the
// cut with an ellipsis. It returns format(s) unchanged when it already fits.
func truncate(s string, width float64, measure func(string) float64, format func(string) string) string {
	if measure(format(s)) <= width {
		return format(s)
	}
	for len(s) > 0 {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
		if out := format(s + ellipsis); measure(out) <= width {
			return out
		}
	}
	return format(ellipsis)
}
