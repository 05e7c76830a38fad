/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import "strings"

// Side selects one half of a Pair.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Pair holds the two names assigned to opposing sides of one row.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Row is a Pair plus its lock flag, as fed to Shuffle.
type Row struct {
	Pair
	Locked bool
}

func (p Pair) swapped() Pair {
	return Pair{Left: p.Right, Right: p.Left}
}

// Blank reports whether either side is empty after trimming.
func (p Pair) Blank() bool {
	return strings.TrimSpace(p.Left) == "" || strings.TrimSpace(p.Right) == ""
}

func clonePairs(pairs []Pair) []Pair {
	if pairs == nil {
		return nil
	}
	out := make([]Pair, len(pairs))
	copy(out, pairs)
	return out
}

func zipRows(values []Pair, locks []bool) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{Pair: v, Locked: i < len(locks) && locks[i]}
	}
	return rows
}
