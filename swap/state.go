/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import "math"

// State is the persisted shape of one tool instance. Values and Locks
// always have one entry per configured row.
type State struct {
	Values       []Pair `json:"values"`
	Locks        []bool `json:"locks"`
	ShuffleCount int    `json:"shuffleCount"`
}

// NewState returns the empty state for n rows.
func NewState(n int) State {
	return State{
		Values: make([]Pair, n),
		Locks:  make([]bool, n),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	locks := make([]bool, len(s.Locks))
	copy(locks, s.Locks)

	return State{
		Values:       clonePairs(s.Values),
		Locks:        locks,
		ShuffleCount: s.ShuffleCount,
	}
}

// Migrate coerces an arbitrary decoded JSON value into a valid State for n
// rows. Each field is checked on its own: a malformed field falls back to
// its default without affecting the others.
func Migrate(raw any, n int) State {
	state := NewState(n)

	obj, ok := raw.(map[string]any)
	if !ok {
		return state
	}

	if values, ok := obj["values"].([]any); ok && len(values) == n {
		for i, v := range values {
			entry, _ := v.(map[string]any)
			state.Values[i] = Pair{
				Left:  stringField(entry, "left"),
				Right: stringField(entry, "right"),
			}
		}
	}

	if locks, ok := obj["locks"].([]any); ok && len(locks) == n {
		for i, v := range locks {
			state.Locks[i] = truthy(v)
		}
	}

	if count, ok := obj["shuffleCount"].(float64); ok && !math.IsNaN(count) && !math.IsInf(count, 0) && count > 0 {
		if count >= math.MaxInt {
			state.ShuffleCount = math.MaxInt
		} else {
			state.ShuffleCount = int(count)
		}
	}

	return state
}

func stringField(entry map[string]any, key string) string {
	s, _ := entry[key].(string)
	return s
}

// truthy follows JSON-ish truthiness: false, 0, "", and null are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}
