package safrole

import (
	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/types"
)

// SealKey is the per-slot authorization key: either a ticket commitment
// (ticket mode) or a fallback Bandersnatch public key (fallback mode).
// EntryIndex is only meaningful in ticket mode: it's the attempt index the
// winning ticket was submitted with, part of the seal's signature context.
type SealKey struct {
	TicketMode bool
	TicketID   types.Hash
	EntryIndex uint8
	Fallback   [32]byte
}

// FallbackKey derives the fallback Bandersnatch public key for slot phase i
// of the next epoch: `activeset[fold4(blake2b(entropy2 ‖ encode[4]{i}))[0:4]
// mod |activeset|].bandersnatch` (see DESIGN.md's Open Question decision).
func FallbackKey(entropy2 types.Hash, i uint32, activeSet []types.ValidatorKey, h cryptocap.Hasher) [32]byte {
	buf := append(append([]byte{}, entropy2.Bytes()...), byte(i), byte(i>>8), byte(i>>16), byte(i>>24))
	digest := h.Blake2b256(buf)
	idx := cryptocap.Fold4LE([32]byte(digest), uint64(len(activeSet)))
	return activeSet[idx].Bandersnatch
}

// SealKeyForSlot selects the seal key for phase i of the next epoch. Ticket
// mode applies when the accumulator is full at the epoch boundary; it maps
// phase i directly onto the Z-sequenced winners (the header's winnersMark
// schedule), since that sequence IS the assignment of tickets to slots.
func SealKeyForSlot(ticketAccumulator []types.WinningTicket, activeSet []types.ValidatorKey, entropy2 types.Hash, i uint32, params Params, h cryptocap.Hasher) SealKey {
	if len(ticketAccumulator) == int(params.EpochLen) {
		winners := WinnersMark(ticketAccumulator)
		return SealKey{TicketMode: true, TicketID: winners[i].ID, EntryIndex: winners[i].EntryIndex}
	}
	return SealKey{TicketMode: false, Fallback: FallbackKey(entropy2, i, activeSet, h)}
}

// EpochMark builds the header's epochMark: `(entropyAccumulator, entropy1,
// validators)` where validators is the post-rotation stagingset and
// entropy1 is the pre-rotation entropy1.
func EpochMark(postRotationEntropyAcc, preRotationEntropy1 types.Hash, postRotationStagingSet []types.ValidatorKey) *types.EpochMark {
	vs := make([]types.EpochMarkValidator, len(postRotationStagingSet))
	for i, v := range postRotationStagingSet {
		vs[i] = types.EpochMarkValidator{Bandersnatch: v.Bandersnatch, Ed25519: v.Ed25519}
	}
	return &types.EpochMark{
		EntropyAccumulator: postRotationEntropyAcc,
		Entropy1:           preRotationEntropy1,
		Validators:         vs,
	}
}

// EpochMarkRequired reports whether currentSlot is the first slot of an
// epoch.
func EpochMarkRequired(currentSlot uint32, epochLen uint32) bool {
	return Phase(currentSlot, epochLen) == 0
}
