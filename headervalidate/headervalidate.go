// Package headervalidate implements the pre-import header validation
// pipeline (§4.4): an ordered sequence of checks run against a candidate
// header and the importing chain's state before any extrinsic is applied.
package headervalidate

import (
	"errors"
	"time"

	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/metrics"
	"github.com/jamdev/jamnode/safrole"
	"github.com/jamdev/jamnode/state"
	"github.com/jamdev/jamnode/types"
)

var (
	ErrBadParent         = errors.New("headervalidate: parent hash does not match chain head")
	ErrBadPriorRoot      = errors.New("headervalidate: prior state root does not match chain head")
	ErrBadSlot           = errors.New("headervalidate: timeslot not strictly greater than parent")
	ErrMissingEpochMark  = errors.New("headervalidate: epoch mark required but absent")
	ErrUnexpectedEpochMark = errors.New("headervalidate: epoch mark present but not required")
	ErrInvalidEpochMark  = errors.New("headervalidate: epoch mark does not match expected content")
	ErrMissingWinnersMark = errors.New("headervalidate: winners mark required but absent")
	ErrUnexpectedWinnersMark = errors.New("headervalidate: winners mark present but not required")
	ErrInvalidWinnersMark = errors.New("headervalidate: winners mark does not match the epoch's ticket accumulator")
	ErrBadAuthorIndex    = errors.New("headervalidate: author index out of bounds")
	ErrOffenderAuthor    = errors.New("headervalidate: author index is a known offender")
	ErrBadSeal           = errors.New("headervalidate: seal signature verification failed")
	ErrBadVRF            = errors.New("headervalidate: VRF signature verification failed")
)

// Context bundles everything a header validation pass needs beyond the
// candidate header itself: the pre-import chain state, the Safrole
// parameters in force, and the crypto capabilities used to check
// signatures.
type Context struct {
	ParentHash     types.Hash
	ParentSlot     uint32
	PriorStateRoot types.Hash
	St             *state.State
	Params         safrole.Params
	Suite          cryptocap.Suite

	// Metrics is optional; when set, Validate reports the wall-clock time
	// spent on the VRF and seal signature checks (steps 8-9).
	Metrics *metrics.Metrics
}

// Validate runs the full ordered pipeline against h and returns the first
// failing check's error, or nil if h is valid to import against ctx.
func Validate(h *types.Header, ctx Context) error {
	if h.Parent != ctx.ParentHash {
		return ErrBadParent
	}
	if h.PriorStateRoot != ctx.PriorStateRoot {
		return ErrBadPriorRoot
	}
	if h.Timeslot <= ctx.ParentSlot {
		return ErrBadSlot
	}

	if err := validateEpochMark(h, ctx); err != nil {
		return err
	}
	if err := validateWinnersMark(h, ctx); err != nil {
		return err
	}

	if int(h.AuthorIndex) < 0 || int(h.AuthorIndex) >= len(ctx.St.ActiveSet) {
		return ErrBadAuthorIndex
	}
	author := ctx.St.ActiveSet[h.AuthorIndex]
	for _, offender := range ctx.St.Disputes.Offenders {
		if offender == types.Hash(author.Ed25519) {
			return ErrOffenderAuthor
		}
	}

	sealStart := time.Now()
	err := validateSeal(h, ctx, author)
	if err == nil {
		err = validateVRF(h, ctx, author)
	}
	if ctx.Metrics != nil {
		ctx.Metrics.SealVerifyDuration.Observe(time.Since(sealStart).Seconds())
	}
	return err
}

func validateEpochMark(h *types.Header, ctx Context) error {
	required := safrole.EpochMarkRequired(h.Timeslot, ctx.Params.EpochLen)
	if required && h.EpochMark == nil {
		return ErrMissingEpochMark
	}
	if !required && h.EpochMark != nil {
		return ErrUnexpectedEpochMark
	}
	if !required {
		return nil
	}
	rotated := safrole.RotateEntropy(ctx.St.Entropy)
	want := safrole.EpochMark(rotated.Accumulator, ctx.St.Entropy.Entropy1, ctx.St.StagingSet)
	if h.EpochMark.EntropyAccumulator != want.EntropyAccumulator || h.EpochMark.Entropy1 != want.Entropy1 {
		return ErrInvalidEpochMark
	}
	if len(h.EpochMark.Validators) != len(want.Validators) {
		return ErrInvalidEpochMark
	}
	for i := range want.Validators {
		if h.EpochMark.Validators[i] != want.Validators[i] {
			return ErrInvalidEpochMark
		}
	}
	return nil
}

func validateWinnersMark(h *types.Header, ctx Context) error {
	accLen := len(ctx.St.Safrole.TicketAccumulator)
	required := safrole.WinnersMarkRequired(ctx.ParentSlot, h.Timeslot, accLen, ctx.Params)
	if required && h.WinnersMark == nil {
		return ErrMissingWinnersMark
	}
	if !required && h.WinnersMark != nil {
		return ErrUnexpectedWinnersMark
	}
	if !required {
		return nil
	}
	want := safrole.WinnersMark(ctx.St.Safrole.TicketAccumulator)
	if len(h.WinnersMark) != len(want) {
		return ErrInvalidWinnersMark
	}
	for i := range want {
		if h.WinnersMark[i] != want[i] {
			return ErrInvalidWinnersMark
		}
	}
	return nil
}

// validateVRF checks step 9: vrfSig verifies as a Bandersnatch VRF signature
// over an empty input, under a context that binds banderout(sealSig) so the
// VRF output cannot be replayed against a different seal.
func validateVRF(h *types.Header, ctx Context, author types.ValidatorKey) error {
	seal := ctx.Suite.Banderout(h.SealSig)
	context := append(append([]byte{}, xEntropyContext...), seal[:]...)
	if !ctx.Suite.VerifySingle(author.Bandersnatch, context, nil, h.VRFSig) {
		return ErrBadVRF
	}
	return nil
}

// validateSeal checks step 8. Ticket mode binds the context to entropy3 and
// the winning ticket's entryIndex; fallback mode binds only to entropy3. In
// both cases the context verifies against the unsigned-header encoding.
func validateSeal(h *types.Header, ctx Context, author types.ValidatorKey) error {
	phase := safrole.Phase(h.Timeslot, ctx.Params.EpochLen)
	key := safrole.SealKeyForSlot(ctx.St.Safrole.TicketAccumulator, ctx.St.ActiveSet, ctx.St.Entropy.Entropy2, phase, ctx.Params, ctx.Suite)
	unsigned := h.EncodeUnsigned(int(ctx.Params.EpochLen))
	entropy3 := ctx.St.Entropy.Entropy3.Bytes()

	if key.TicketMode {
		context := append(append(append([]byte{}, xTicketContext...), entropy3...), key.EntryIndex)
		if !ctx.Suite.VerifyRing(ctx.St.Safrole.RingRoot, context, unsigned, h.SealSig) {
			return ErrBadSeal
		}
		if ctx.Suite.Banderout(h.SealSig) != key.TicketID {
			return ErrBadSeal
		}
		return nil
	}
	if author.Bandersnatch != key.Fallback {
		return ErrBadSeal
	}
	context := append(append([]byte{}, xFallbackContext...), entropy3...)
	if !ctx.Suite.VerifySingle(author.Bandersnatch, context, unsigned, h.SealSig) {
		return ErrBadSeal
	}
	return nil
}

var (
	xEntropyContext  = []byte("jam_entropy")
	xTicketContext   = []byte("jam_ticket_seal")
	xFallbackContext = []byte("jam_fallback_seal")
)
