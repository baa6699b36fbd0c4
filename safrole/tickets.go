package safrole

import (
	"bytes"
	"errors"
	"sort"

	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/types"
)

// xTicketContext is the domain-separation context tickets are signed over:
// `X_ticket ‖ entropy2 ‖ attemptIndex`.
var xTicketContext = []byte("jam_ticket_seal")

// Rejection reasons form a disjoint taxonomy (§4.3).
var (
	ErrBadSlot          = errors.New("safrole: tickets not accepted outside the contest window")
	ErrBadTicketAttempt  = errors.New("safrole: attempt index exceeds tickets-per-validator")
	ErrBadTicketProof    = errors.New("safrole: ring-VRF proof does not verify")
	ErrBadTicketOrder    = errors.New("safrole: tickets within an extrinsic must be sorted ascending by VRF output")
	ErrDuplicateTicket   = errors.New("safrole: ticket already present in the accumulator")
	ErrUnexpectedTicket  = errors.New("safrole: ticket accumulator is already full for this epoch")
)

// ProcessTickets validates a block's ticket submissions against the
// contest-window and ring-proof rules, returning the updated accumulator
// (sorted ascending by VRF output, deduplicated, truncated to epochLen) or
// the first rejection reason encountered.
func ProcessTickets(
	subs []types.TicketSubmission,
	accumulator []types.WinningTicket,
	phase uint32,
	params Params,
	entropy2 types.Hash,
	ringRoot types.Hash,
	bc cryptocap.Bandersnatch,
) ([]types.WinningTicket, error) {
	if len(subs) == 0 {
		return accumulator, nil
	}
	if phase >= params.ContestDuration {
		return nil, ErrBadSlot
	}

	seen := make(map[types.Hash]bool, len(accumulator))
	for _, t := range accumulator {
		seen[t.ID] = true
	}

	var lastID types.Hash
	haveLast := false
	next := append([]types.WinningTicket(nil), accumulator...)

	for _, sub := range subs {
		if int(sub.AttemptIndex) >= params.TicketsPerValidator {
			return nil, ErrBadTicketAttempt
		}
		input := append(append([]byte{}, entropy2.Bytes()...), sub.AttemptIndex)
		if !bc.VerifyRing(ringRoot, xTicketContext, input, sub.Proof) {
			return nil, ErrBadTicketProof
		}
		id := types.Hash(bc.Banderout(sub.Proof))

		if haveLast && bytes.Compare(id[:], lastID[:]) <= 0 {
			return nil, ErrBadTicketOrder
		}
		lastID, haveLast = id, true

		if seen[id] {
			return nil, ErrDuplicateTicket
		}
		if len(next) >= int(params.EpochLen) {
			return nil, ErrUnexpectedTicket
		}
		seen[id] = true
		next = append(next, types.WinningTicket{ID: id, EntryIndex: sub.AttemptIndex})
	}

	sort.Slice(next, func(i, j int) bool { return bytes.Compare(next[i].ID[:], next[j].ID[:]) < 0 })
	if len(next) > int(params.EpochLen) {
		next = next[:params.EpochLen]
	}
	return next, nil
}
