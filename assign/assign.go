package assign

import "github.com/jamdev/jamnode/cryptocap"

// InitialAssignment builds the unshuffled core assignment a_i = floor(
// corecount * i / valcount) for i in [0, valcount).
func InitialAssignment(valCount, coreCount int) []uint32 {
	a := make([]uint32, valCount)
	for i := range a {
		a[i] = uint32(coreCount*i) / uint32(valCount)
	}
	return a
}

// Permutation computes the shuffled, unrotated core assignment for an epoch:
// the initial assignment shuffled in place by jamShuffle seeded by entropy2.
func Permutation(valCount, coreCount int, entropy2 [32]byte, h cryptocap.Hasher) []uint32 {
	return JamShuffle(InitialAssignment(valCount, coreCount), entropy2, h)
}

// Rotate computes assigned(i) for validator index i given the epoch's
// permutation, the current slot's phase, and the rotation period:
// `assigned(i) = (a[i] + floor(phase(currentSlot)/rotationperiod)) mod
// corecount`.
func Rotate(permutation []uint32, phase uint32, rotationPeriod uint32, coreCount int) []uint32 {
	shift := phase / rotationPeriod
	out := make([]uint32, len(permutation))
	for i, core := range permutation {
		out[i] = (core + shift) % uint32(coreCount)
	}
	return out
}

// CoGuarantors returns the indices of all validators assigned to core, given
// the current slot's rotated assignment.
func CoGuarantors(assigned []uint32, core uint32) []int {
	var out []int
	for i, c := range assigned {
		if c == core {
			out = append(out, i)
		}
	}
	return out
}
