/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import "strings"

// NameCounts maps a normalized name to the number of cells holding it.
type NameCounts map[string]int

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CountNames counts every non-blank name on both sides of every pair in a
// single shared namespace.
func CountNames(pairs []Pair) NameCounts {
	counts := make(NameCounts)
	for _, p := range pairs {
		for _, name := range [2]string{p.Left, p.Right} {
			normalized := normalizeName(name)
			if normalized == "" {
				continue
			}
			counts[normalized]++
		}
	}
	return counts
}

// HasDuplicates reports whether any name appears more than once.
func (c NameCounts) HasDuplicates() bool {
	for _, n := range c {
		if n > 1 {
			return true
		}
	}
	return false
}

// IsDuplicate normalizes name the same way CountNames does before lookup.
func (c NameCounts) IsDuplicate(name string) bool {
	return c[normalizeName(name)] > 1
}

// DuplicateFlags marks which sides of a row hold a duplicated name.
type DuplicateFlags struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Flags returns per-row duplicate markers for pairs.
func (c NameCounts) Flags(pairs []Pair) []DuplicateFlags {
	flags := make([]DuplicateFlags, len(pairs))
	for i, p := range pairs {
		flags[i] = DuplicateFlags{
			Left:  c.IsDuplicate(p.Left),
			Right: c.IsDuplicate(p.Right),
		}
	}
	return flags
}
