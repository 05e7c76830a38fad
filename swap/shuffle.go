/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

// Shuffle flips a fair coin for every row that is unlocked and eligible,
// swapping that row's two sides on heads. Rows never exchange values with
// each other.
//
// A row is eligible when allowEmptySwap is set, or when both sides are
// non-empty after trimming. Locked and ineligible rows consume no random
// draws, so a fixed random sequence always produces the same output.
func Shuffle(rows []Row, allowEmptySwap bool, random Random) []Pair {
	if random == nil {
		random = SecureRandom
	}

	out := make([]Pair, len(rows))
	for i, row := range rows {
		out[i] = row.Pair

		if row.Locked {
			continue
		}

		if !allowEmptySwap && row.Blank() {
			continue
		}

		if random() < 0.5 {
			out[i] = row.swapped()
		}
	}

	return out
}

// animate toggles every unlocked row at random. It drives the preview shown
// while a shuffle is in flight and is never persisted.
func animate(pairs []Pair, locks []bool, random Random) []Pair {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = p
		if i < len(locks) && locks[i] {
			continue
		}
		if random() < 0.5 {
			out[i] = p.swapped()
		}
	}
	return out
}
