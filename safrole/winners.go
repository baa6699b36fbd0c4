package safrole

import "github.com/jamdev/jamnode/types"

// OutsideIn applies the outside-in sequencer Z to s: `Z(s)_i = s_{i/2}` for
// even i, `Z(s)_i = s_{|s|-1-floor(i/2)}` for odd i.
func OutsideIn(s []types.WinningTicket) []types.WinningTicket {
	n := len(s)
	out := make([]types.WinningTicket, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out[i] = s[i/2]
		} else {
			out[i] = s[n-1-i/2]
		}
	}
	return out
}

// OutsideInInverse is Z⁻¹: it reconstructs the original order from Z(s).
// Since Z is its own kind of shuffle built from a simple index mapping,
// the inverse is computed by replaying the same index formula in reverse:
// position i/2 (even i) or |s|-1-i/2 (odd i) in the original sequence holds
// z[i].
func OutsideInInverse(z []types.WinningTicket) []types.WinningTicket {
	n := len(z)
	out := make([]types.WinningTicket, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out[i/2] = z[i]
		} else {
			out[n-1-i/2] = z[i]
		}
	}
	return out
}

// WinnersMarkRequired reports whether the header's winnersMark field must
// be present for the given slot transition, per §4.3.
func WinnersMarkRequired(previousSlot, currentSlot uint32, accumulatorLen int, params Params) bool {
	epochLen := params.EpochLen
	return Epoch(previousSlot, epochLen) == Epoch(currentSlot, epochLen) &&
		Phase(previousSlot, epochLen) < params.ContestDuration &&
		params.ContestDuration <= Phase(currentSlot, epochLen) &&
		accumulatorLen == int(epochLen)
}

// WinnersMark computes the header's winnersMark value: Z applied to the
// ticket accumulator.
func WinnersMark(accumulator []types.WinningTicket) []types.WinningTicket {
	return OutsideIn(accumulator)
}
