package query

import (
	"math/bits"
	"sort"
	"time"
)

// DaySeed is the default shuffle seed: the UTC calendar day of now.
func DaySeed(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// HashSeed folds key into a 32-bit seed with a DJB2-style accumulator.
func HashSeed(key string) uint32 {
	h := uint32(5381)
	for _, r := range key {
		h = bits.RotateLeft32((h*33)^uint32(r), 5)
	}
	return h
}

// Mulberry32 returns a generator of floats in [0, 1) seeded with seed.
func Mulberry32(seed uint32) func() float64 {
	a := seed
	return func() float64 {
		a += 0x6D2B79F5
		t := a
		t = (t ^ t>>15) * (t | 1)
		t ^= t + (t^t>>7)*(t|61)
		return float64(t^t>>14) / 4294967296.0
	}
}

// Shuffle returns a permutation of addrs determined only by key and the set of
// addresses; the input order does not matter and addrs is not modified.
func Shuffle(key string, addrs []int) []int {
	out := append([]int(nil), addrs...)
	sort.Ints(out)
	next := Mulberry32(HashSeed(key))
	for i := len(out) - 1; i > 0; i-- {
		j := int(next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
