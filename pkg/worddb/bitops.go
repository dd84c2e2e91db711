package worddb

import (
	"math/bits"

	"github.com/bits-and-blooms/bitset"
)

// highestSet returns the index of the highest set bit, scanning the
// underlying 64-bit words from the top. ok is false for an empty bitmap.
func highestSet(bm *bitset.BitSet) (uint, bool) {
	words := bm.Bytes()
	for i := len(words) - 1; i >= 0; i-- {
		if w := words[i]; w != 0 {
			return uint(i)*64 + uint(bits.Len64(w)) - 1, true
		}
	}
	return 0, false
}

// forEachSetDesc visits every set bit from highest to lowest index.
// Iteration stops early when the callback returns false.
func forEachSetDesc(bm *bitset.BitSet, fn func(i uint) bool) {
	words := bm.Bytes()
	for i := len(words) - 1; i >= 0; i-- {
		w := words[i]
		for w != 0 {
			top := uint(bits.Len64(w)) - 1
			if !fn(uint(i)*64 + top) {
				return
			}
			w &^= 1 << top
		}
	}
}
