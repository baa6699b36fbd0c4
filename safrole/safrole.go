// Package safrole drives the slot/epoch state machine that selects block
// authors and rotates validator sets and entropy (§4.3).
package safrole

import (
	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/state"
	"github.com/jamdev/jamnode/types"
)

// Params are the chain-spec constants the engine needs.
type Params struct {
	EpochLen                uint32
	ContestDuration          uint32
	ValCount                 int
	CoreCount                int
	RotationPeriod           uint32
	TicketsPerValidator      int
	MaxTicketsPerExtrinsic   int
}

func Epoch(slot uint32, epochLen uint32) uint32 { return slot / epochLen }
func Phase(slot uint32, epochLen uint32) uint32 { return slot % epochLen }

// TransitionClass classifies the gap between the previous and current slot.
type TransitionClass int

const (
	InEpoch TransitionClass = iota
	EpochTransition
	SkipEpoch
)

func ClassifyTransition(previousSlot, currentSlot uint32, epochLen uint32) TransitionClass {
	pe, ce := Epoch(previousSlot, epochLen), Epoch(currentSlot, epochLen)
	switch {
	case ce == pe:
		return InEpoch
	case ce == pe+1:
		return EpochTransition
	default:
		return SkipEpoch
	}
}

// RotateEntropy applies the epoch-boundary entropy rotation:
// `(acc, e1, e2, e3) -> (acc, acc, e1, e2)`.
func RotateEntropy(e state.EntropyState) state.EntropyState {
	return state.EntropyState{
		Accumulator: e.Accumulator,
		Entropy1:    e.Accumulator,
		Entropy2:    e.Entropy1,
		Entropy3:    e.Entropy2,
	}
}

// MixEntropy folds a successfully imported block's VRF output into the
// running entropy accumulator.
func MixEntropy(acc types.Hash, vrfOutput types.Hash, h cryptocap.Hasher) types.Hash {
	return h.Blake2b256(append(append([]byte{}, acc.Bytes()...), vrfOutput.Bytes()...))
}

// ApplyOffenders substitutes every entry of pendingSet whose ed25519
// component matches an offender with the zero validator key, preserving
// ordering and size, per §4.3.
func ApplyOffenders(pendingSet []types.ValidatorKey, offenders []types.Hash) []types.ValidatorKey {
	isOffender := make(map[types.Hash]bool, len(offenders))
	for _, o := range offenders {
		isOffender[o] = true
	}
	out := make([]types.ValidatorKey, len(pendingSet))
	for i, v := range pendingSet {
		var ed types.Hash
		copy(ed[:], v.Ed25519[:])
		if isOffender[ed] {
			out[i] = types.ValidatorKey{}
			continue
		}
		out[i] = v
	}
	return out
}

// RotateValidators applies the epoch-boundary validator-set rotation:
// `previousset' <- activeset`, `activeset' <- stagingset`,
// `stagingset' <- filter(pendingset, exclude offenders)`.
func RotateValidators(s *state.State) {
	s.PreviousSet = s.ActiveSet
	s.ActiveSet = s.StagingSet
	s.StagingSet = ApplyOffenders(s.Safrole.PendingSet, s.Disputes.Offenders)
}

// ApplyEpochBoundary performs every epoch-boundary transition on s in place:
// entropy rotation, validator-set rotation, and clearing the ticket
// accumulator for the new contest. Callers are responsible for having
// already classified the transition as EpochTransition.
func ApplyEpochBoundary(s *state.State) {
	s.Entropy = RotateEntropy(s.Entropy)
	RotateValidators(s)
	s.Safrole.TicketAccumulator = nil
}
