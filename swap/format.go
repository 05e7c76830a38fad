/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatRows renders one export line per pair as "<left>\t<right>". Blank
// sides are replaced by the fallback labels, and the left column is padded
// to the display width of the widest left entry so the lines align in a
// monospaced font.
func FormatRows(pairs []Pair, leftFallback, rightFallback string) []string {
	lefts := make([]string, len(pairs))
	rights := make([]string, len(pairs))
	width := 0

	for i, p := range pairs {
		lefts[i] = orFallback(p.Left, leftFallback)
		rights[i] = orFallback(p.Right, rightFallback)

		if w := runewidth.StringWidth(lefts[i]); w > width {
			width = w
		}
	}

	lines := make([]string, len(pairs))
	for i := range pairs {
		lines[i] = runewidth.FillRight(lefts[i], width) + "\t" + rights[i]
	}

	return lines
}

// FormatText joins FormatRows output with newlines.
func FormatText(pairs []Pair, leftFallback, rightFallback string) string {
	return strings.Join(FormatRows(pairs, leftFallback, rightFallback), "\n")
}

func orFallback(name, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fallback
}
