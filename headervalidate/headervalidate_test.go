package headervalidate

import (
	"bytes"
	"testing"

	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/safrole"
	"github.com/jamdev/jamnode/state"
	"github.com/jamdev/jamnode/types"
)

// stubSuite accepts every signature check, isolating the orchestration
// logic (ordering, gating) from real cryptography, which these tests do
// not attempt to fabricate.
type stubSuite struct{ cryptocap.Blake2bHasher }

func (stubSuite) VerifyEd25519(pubkey [32]byte, message []byte, sig types.Ed25519Sig) bool {
	return true
}
func (stubSuite) VerifySingle(pubkey [32]byte, context, input []byte, sig types.BandersnatchSig) bool {
	return true
}
func (stubSuite) VerifyRing(ringRoot [32]byte, context, input []byte, sig types.BandersnatchSig) bool {
	return true
}
func (stubSuite) Banderout(sig types.BandersnatchSig) [32]byte { return [32]byte{} }
func (stubSuite) VerifyBLS(pubkey, message, sig []byte) bool   { return true }

func baseState() *state.State {
	s := state.New(2, 12)
	s.ActiveSet = []types.ValidatorKey{{}, {}}
	s.StagingSet = []types.ValidatorKey{{}, {}}
	return s
}

func TestValidateBadSlotScenario(t *testing.T) {
	s := baseState()
	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     100,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         safrole.Params{EpochLen: 12},
		Suite:          cryptocap.Suite{Hasher: stubSuite{}, Ed25519Verifier: stubSuite{}, Bandersnatch: stubSuite{}, BLSVerifier: stubSuite{}},
	}
	h := &types.Header{
		Parent:         ctx.ParentHash,
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       100,
	}
	if err := Validate(h, ctx); err != ErrBadSlot {
		t.Fatalf("timeslot == parent slot: err = %v, want ErrBadSlot", err)
	}

	h.Timeslot = 101
	if err := Validate(h, ctx); err != nil {
		t.Fatalf("timeslot 101 should pass orchestration checks under a stub suite: %v", err)
	}
}

func TestValidateBadParent(t *testing.T) {
	s := baseState()
	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     100,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         safrole.Params{EpochLen: 12},
		Suite:          cryptocap.Suite{Hasher: stubSuite{}, Ed25519Verifier: stubSuite{}, Bandersnatch: stubSuite{}, BLSVerifier: stubSuite{}},
	}
	h := &types.Header{
		Parent:         types.Hash{9},
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       101,
	}
	if err := Validate(h, ctx); err != ErrBadParent {
		t.Fatalf("err = %v, want ErrBadParent", err)
	}
}

func TestValidateAuthorIndexOutOfBounds(t *testing.T) {
	s := baseState()
	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     100,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         safrole.Params{EpochLen: 12},
		Suite:          cryptocap.Suite{Hasher: stubSuite{}, Ed25519Verifier: stubSuite{}, Bandersnatch: stubSuite{}, BLSVerifier: stubSuite{}},
	}
	h := &types.Header{
		Parent:         ctx.ParentHash,
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       101,
		AuthorIndex:    5,
	}
	if err := Validate(h, ctx); err != ErrBadAuthorIndex {
		t.Fatalf("err = %v, want ErrBadAuthorIndex", err)
	}
}

func TestValidateOffenderAuthorRejected(t *testing.T) {
	s := baseState()
	var offenderEd [32]byte
	offenderEd[0] = 0xaa
	s.ActiveSet[0].Ed25519 = offenderEd
	s.Disputes.Offenders = []types.Hash{types.Hash(offenderEd)}

	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     100,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         safrole.Params{EpochLen: 12},
		Suite:          cryptocap.Suite{Hasher: stubSuite{}, Ed25519Verifier: stubSuite{}, Bandersnatch: stubSuite{}, BLSVerifier: stubSuite{}},
	}
	h := &types.Header{
		Parent:         ctx.ParentHash,
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       101,
		AuthorIndex:    0,
	}
	if err := Validate(h, ctx); err != ErrOffenderAuthor {
		t.Fatalf("err = %v, want ErrOffenderAuthor", err)
	}
}

func TestValidateEpochMarkGating(t *testing.T) {
	s := baseState()
	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     11,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         safrole.Params{EpochLen: 12},
		Suite:          cryptocap.Suite{Hasher: stubSuite{}, Ed25519Verifier: stubSuite{}, Bandersnatch: stubSuite{}, BLSVerifier: stubSuite{}},
	}
	h := &types.Header{
		Parent:         ctx.ParentHash,
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       12,
	}
	if err := Validate(h, ctx); err != ErrMissingEpochMark {
		t.Fatalf("crossing an epoch boundary without an epoch mark: err = %v, want ErrMissingEpochMark", err)
	}

	rotated := safrole.RotateEntropy(s.Entropy)
	h.EpochMark = safrole.EpochMark(rotated.Accumulator, s.Entropy.Entropy1, s.StagingSet)
	if err := Validate(h, ctx); err != nil {
		t.Fatalf("correctly constructed epoch mark should validate: %v", err)
	}
}

// recordingSuite captures the context/input bytes passed to each verification
// call so tests can assert on exact signature-context construction, not just
// on the pass/fail outcome a stub that ignores its arguments would hide.
type recordingSuite struct {
	cryptocap.Blake2bHasher
	banderout [32]byte

	singleCalls []verifyCall
	ringCalls   []verifyCall
}

type verifyCall struct {
	pubkey  [32]byte
	context []byte
	input   []byte
}

func (s *recordingSuite) VerifyEd25519(pubkey [32]byte, message []byte, sig types.Ed25519Sig) bool {
	return true
}
func (s *recordingSuite) VerifySingle(pubkey [32]byte, context, input []byte, sig types.BandersnatchSig) bool {
	s.singleCalls = append(s.singleCalls, verifyCall{pubkey, append([]byte(nil), context...), append([]byte(nil), input...)})
	return true
}
func (s *recordingSuite) VerifyRing(ringRoot [32]byte, context, input []byte, sig types.BandersnatchSig) bool {
	s.ringCalls = append(s.ringCalls, verifyCall{ringRoot, append([]byte(nil), context...), append([]byte(nil), input...)})
	return true
}
func (s *recordingSuite) Banderout(sig types.BandersnatchSig) [32]byte { return s.banderout }
func (s *recordingSuite) VerifyBLS(pubkey, message, sig []byte) bool   { return true }

func TestValidateVRFContextBindsBanderoutOfSeal(t *testing.T) {
	s := baseState()
	rec := &recordingSuite{banderout: [32]byte{0xaa, 0xbb}}
	params := safrole.Params{EpochLen: 12}
	// baseState's ActiveSet entries all carry a zero Bandersnatch key, which
	// matches the zero-entropy fallback key trivially, so fallback mode's
	// own check passes here without obscuring the VRF-context assertion
	// below (see TestValidateSealContextFallbackMode for that check itself).
	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     100,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         params,
		Suite:          cryptocap.Suite{Hasher: rec, Ed25519Verifier: rec, Bandersnatch: rec, BLSVerifier: rec},
	}
	h := &types.Header{
		Parent:         ctx.ParentHash,
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       101,
		AuthorIndex:    0,
	}
	if err := Validate(h, ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(rec.singleCalls) == 0 {
		t.Fatalf("VerifySingle was never called")
	}
	vrfCall := rec.singleCalls[len(rec.singleCalls)-1]
	want := append(append([]byte{}, []byte("jam_entropy")...), rec.banderout[:]...)
	if !bytes.Equal(vrfCall.context, want) {
		t.Fatalf("VRF context = % x, want % x", vrfCall.context, want)
	}
	if len(vrfCall.input) != 0 {
		t.Fatalf("VRF input = % x, want empty", vrfCall.input)
	}
}

func TestValidateSealContextTicketMode(t *testing.T) {
	s := baseState()
	s.Entropy.Entropy3 = types.Hash{7, 7, 7}
	s.Safrole.TicketAccumulator = []types.WinningTicket{
		{ID: types.Hash{1}, EntryIndex: 3},
		{ID: types.Hash{2}, EntryIndex: 1},
	}
	rec := &recordingSuite{}
	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     100,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         safrole.Params{EpochLen: 2},
		Suite:          cryptocap.Suite{Hasher: rec, Ed25519Verifier: rec, Bandersnatch: rec, BLSVerifier: rec},
	}
	h := &types.Header{
		Parent:         ctx.ParentHash,
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       101,
	}
	key := safrole.SealKeyForSlot(s.Safrole.TicketAccumulator, s.ActiveSet, s.Entropy.Entropy2, safrole.Phase(h.Timeslot, 2), ctx.Params, rec)
	if !key.TicketMode {
		t.Fatalf("expected ticket mode with a full accumulator")
	}
	h.SealSig = types.BandersnatchSig{}
	rec.banderout = [32]byte(key.TicketID)

	if err := Validate(h, ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(rec.ringCalls) == 0 {
		t.Fatalf("VerifyRing was never called")
	}
	sealCall := rec.ringCalls[len(rec.ringCalls)-1]
	want := append(append(append([]byte{}, []byte("jam_ticket_seal")...), s.Entropy.Entropy3.Bytes()...), key.EntryIndex)
	if !bytes.Equal(sealCall.context, want) {
		t.Fatalf("ticket-mode seal context = % x, want % x", sealCall.context, want)
	}
	if !bytes.Equal(sealCall.input, h.EncodeUnsigned(int(ctx.Params.EpochLen))) {
		t.Fatalf("ticket-mode seal input does not match the unsigned-header encoding")
	}
}

func TestValidateSealContextFallbackMode(t *testing.T) {
	s := baseState()
	s.Entropy.Entropy2 = types.Hash{9, 9, 9}
	s.Entropy.Entropy3 = types.Hash{7, 7, 7}
	// Accumulator shorter than EpochLen selects fallback mode.
	s.Safrole.TicketAccumulator = nil

	rec := &recordingSuite{}
	params := safrole.Params{EpochLen: 12}
	phase := safrole.Phase(101, params.EpochLen)
	fallback := safrole.FallbackKey(s.Entropy.Entropy2, phase, s.ActiveSet, rec)
	s.ActiveSet[0].Bandersnatch = fallback

	ctx := Context{
		ParentHash:     types.Hash{1},
		ParentSlot:     100,
		PriorStateRoot: types.Hash{2},
		St:             s,
		Params:         params,
		Suite:          cryptocap.Suite{Hasher: rec, Ed25519Verifier: rec, Bandersnatch: rec, BLSVerifier: rec},
	}
	h := &types.Header{
		Parent:         ctx.ParentHash,
		PriorStateRoot: ctx.PriorStateRoot,
		Timeslot:       101,
		AuthorIndex:    0,
	}
	if err := Validate(h, ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(rec.singleCalls) == 0 {
		t.Fatalf("VerifySingle was never called")
	}
	sealCall := rec.singleCalls[0]
	want := append(append([]byte{}, []byte("jam_fallback_seal")...), s.Entropy.Entropy3.Bytes()...)
	if !bytes.Equal(sealCall.context, want) {
		t.Fatalf("fallback-mode seal context = % x, want % x", sealCall.context, want)
	}
	if !bytes.Equal(sealCall.input, h.EncodeUnsigned(int(ctx.Params.EpochLen))) {
		t.Fatalf("fallback-mode seal input does not match the unsigned-header encoding")
	}
}
