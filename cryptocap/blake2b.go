package cryptocap

import (
	"golang.org/x/crypto/blake2b"

	"github.com/jamdev/jamnode/types"
)

// Blake2bHasher is the concrete Hasher backed by golang.org/x/crypto/blake2b.
type Blake2bHasher struct{}

func (Blake2bHasher) Blake2b256(data []byte) types.Hash {
	return types.Hash(blake2b.Sum256(data))
}

// Fold4LE folds the first 4 octets of keystream little-endian into [0, bound)
// by plain modulo reduction, the idiom used for the Safrole fallback seal key,
// which has no unbiasedness requirement. jamShuffle's core assignment draw
// uses true rejection sampling instead; see assign.drawBounded.
func Fold4LE(keystream [32]byte, bound uint64) uint64 {
	v := uint64(keystream[0]) | uint64(keystream[1])<<8 | uint64(keystream[2])<<16 | uint64(keystream[3])<<24
	return v % bound
}
