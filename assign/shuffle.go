// Package assign computes per-slot core assignment (§4.5): a Fisher-Yates
// permutation of validators to cores seeded by entropy, rotated by slot
// phase, plus the guarantor signature contexts that authenticate work
// reports against the resulting assignment.
package assign

import (
	"github.com/jamdev/jamnode/cryptocap"
)

// drawBounded draws a uniform value in [0, bound) from keystream via
// rejection sampling: keystream is split into 4-byte little-endian chunks,
// and the first chunk below the unbiased threshold floor(2^32/bound)*bound
// is reduced mod bound. If every chunk in keystream is rejected, the caller
// must supply a fresh keystream (see jamShuffle's round extension).
func drawBounded(keystream []byte, bound uint64) (uint64, bool) {
	threshold := (uint64(1) << 32) / bound * bound
	for off := 0; off+4 <= len(keystream); off += 4 {
		v := uint64(keystream[off]) | uint64(keystream[off+1])<<8 |
			uint64(keystream[off+2])<<16 | uint64(keystream[off+3])<<24
		if v < threshold {
			return v % bound, true
		}
	}
	return 0, false
}

// JamShuffle applies the Fisher-Yates shuffle specified in §4.5: for i from
// |a|-1 down to 1, draw r by folding the keystream blake2b(entropy2 ‖
// encode[4]{i}) into [0, i] via rejection sampling, and swap a[i] with a[r].
// a is shuffled in place and also returned for convenience.
func JamShuffle(a []uint32, entropy2 [32]byte, h cryptocap.Hasher) []uint32 {
	for i := len(a) - 1; i >= 1; i-- {
		bound := uint64(i) + 1
		var r uint64
		round := byte(0)
		for {
			buf := make([]byte, 0, 36)
			buf = append(buf, entropy2[:]...)
			buf = append(buf, byte(i), byte(i>>8), byte(i>>16), byte(i>>24))
			if round > 0 {
				buf = append(buf, round)
			}
			digest := h.Blake2b256(buf)
			if v, ok := drawBounded(digest.Bytes(), bound); ok {
				r = v
				break
			}
			round++
		}
		a[i], a[r] = a[r], a[i]
	}
	return a
}
