/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// Random returns a uniformly distributed value in [0, 1).
type Random func() float64

// SecureRandom draws from crypto/rand, falling back to math/rand/v2 if the
// system source is unavailable.
func SecureRandom() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return mrand.Float64()
	}

	// 53 significant bits, the precision of a float64 mantissa.
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// NewSeeded returns a reproducible source built on a 32-bit linear
// congruential generator. The same seed always yields the same sequence.
func NewSeeded(seed uint32) Random {
	var mu sync.Mutex
	state := seed

	return func() float64 {
		mu.Lock()
		defer mu.Unlock()

		state = 1664525*state + 1013904223
		return float64(state) / 4294967296
	}
}

// Fixed always returns v. Mostly useful for forcing or suppressing swaps.
func Fixed(v float64) Random {
	return func() float64 {
		return v
	}
}
