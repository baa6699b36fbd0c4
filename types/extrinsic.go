package types

import "github.com/jamdev/jamnode/codec"

// TicketSubmission is a single ticket-lottery entry submitted during an
// epoch's contest period, per §4.3: `(attemptIndex, vrfProof)` over
// `X_ticket ‖ entropy2 ‖ attemptIndex`.
type TicketSubmission struct {
	AttemptIndex uint8
	Proof        BandersnatchSig
}

func (t TicketSubmission) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteFixedUint(uint64(t.AttemptIndex), 1)
	e.WriteRaw(t.Proof.Encode())
	return e.Bytes()
}

func DecodeTicketSubmission(d *codec.Decoder) (TicketSubmission, error) {
	var t TicketSubmission
	idx, err := d.DecodeFixedUint(1)
	if err != nil {
		return t, err
	}
	t.AttemptIndex = uint8(idx)
	proof, err := DecodeBandersnatchSig(d)
	if err != nil {
		return t, err
	}
	t.Proof = proof
	return t, nil
}

// PreimageSubmission registers a service's requested preimage blob.
type PreimageSubmission struct {
	Requester ServiceID
	Data      []byte
}

func (p PreimageSubmission) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteFixedUint(uint64(p.Requester), 4)
	e.WriteBlob(p.Data)
	return e.Bytes()
}

func DecodePreimageSubmission(d *codec.Decoder) (PreimageSubmission, error) {
	var p PreimageSubmission
	req, err := d.DecodeFixedUint(4)
	if err != nil {
		return p, err
	}
	p.Requester = ServiceID(req)
	data, err := d.DecodeBlob()
	if err != nil {
		return p, err
	}
	p.Data = data
	return p, nil
}

// GuarantorSignature is one co-guarantor's ed25519 signature over a
// work-report's guarantee context, per §4.5.
type GuarantorSignature struct {
	ValidatorIndex ValidatorIndex
	Signature      Ed25519Sig
}

func (g GuarantorSignature) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteFixedUint(uint64(g.ValidatorIndex), 2)
	e.WriteRaw(g.Signature.Encode())
	return e.Bytes()
}

func DecodeGuarantorSignature(d *codec.Decoder) (GuarantorSignature, error) {
	var g GuarantorSignature
	idx, err := d.DecodeFixedUint(2)
	if err != nil {
		return g, err
	}
	g.ValidatorIndex = ValidatorIndex(idx)
	sig, err := DecodeEd25519Sig(d)
	if err != nil {
		return g, err
	}
	g.Signature = sig
	return g, nil
}

// Guarantee carries a guaranteed work-report reference, the slot it was
// guaranteed in, and the co-guarantor signatures over it.
type Guarantee struct {
	Core           CoreIndex
	WorkReportHash Hash
	Slot           uint32
	Signatures     []GuarantorSignature
}

func (g Guarantee) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteFixedUint(uint64(g.Core), 4)
	e.WriteRaw(g.WorkReportHash.Encode())
	e.WriteFixedUint(uint64(g.Slot), 4)
	e.WriteRaw(codec.EncodeVarSeq(g.Signatures, GuarantorSignature.Encode))
	return e.Bytes()
}

func DecodeGuarantee(d *codec.Decoder, maxSigs int) (Guarantee, error) {
	var g Guarantee
	core, err := d.DecodeFixedUint(4)
	if err != nil {
		return g, err
	}
	g.Core = CoreIndex(core)
	h, err := DecodeHash(d)
	if err != nil {
		return g, err
	}
	g.WorkReportHash = h
	slot, err := d.DecodeFixedUint(4)
	if err != nil {
		return g, err
	}
	g.Slot = uint32(slot)
	sigs, err := codec.DecodeVarSeq(d, maxSigs, DecodeGuarantorSignature)
	if err != nil {
		return g, err
	}
	g.Signatures = sigs
	return g, nil
}

// Assurance is a validator's per-core availability bitfield attestation.
type Assurance struct {
	ValidatorIndex ValidatorIndex
	Anchor         Hash
	Bitfield       []byte // one bit per core, packed big-endian within each byte
	Signature      Ed25519Sig
}

func (a Assurance) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteFixedUint(uint64(a.ValidatorIndex), 2)
	e.WriteRaw(a.Anchor.Encode())
	e.WriteBlob(a.Bitfield)
	e.WriteRaw(a.Signature.Encode())
	return e.Bytes()
}

func DecodeAssurance(d *codec.Decoder) (Assurance, error) {
	var a Assurance
	idx, err := d.DecodeFixedUint(2)
	if err != nil {
		return a, err
	}
	a.ValidatorIndex = ValidatorIndex(idx)
	h, err := DecodeHash(d)
	if err != nil {
		return a, err
	}
	a.Anchor = h
	bf, err := d.DecodeBlob()
	if err != nil {
		return a, err
	}
	a.Bitfield = bf
	sig, err := DecodeEd25519Sig(d)
	if err != nil {
		return a, err
	}
	a.Signature = sig
	return a, nil
}

// Extrinsic carries a block's six sub-sections, per §3: tickets, preimages,
// guarantees, assurances, disputes, and a reserved field for future
// extensions. §5 fixes the processing order: tickets, preimages,
// guarantees, assurances, disputes.
type Extrinsic struct {
	Tickets    []TicketSubmission
	Preimages  []PreimageSubmission
	Guarantees []Guarantee
	Assurances []Assurance
	Disputes   Disputes
	Reserved   []byte
}

// ExtrinsicBounds carries the chain-spec constants needed to bound each
// sub-section's variable sequence on decode.
type ExtrinsicBounds struct {
	MaxTicketsPerExtrinsic int
	MaxPreimages           int
	MaxGuarantees          int
	MaxGuaranteeSignatures int
	MaxAssurances          int
	MaxDisputeEntries      int
	ValidatorCount         int
}

func (ex *Extrinsic) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(codec.EncodeVarSeq(ex.Tickets, TicketSubmission.Encode))
	e.WriteRaw(codec.EncodeVarSeq(ex.Preimages, PreimageSubmission.Encode))
	e.WriteRaw(codec.EncodeVarSeq(ex.Guarantees, Guarantee.Encode))
	e.WriteRaw(codec.EncodeVarSeq(ex.Assurances, Assurance.Encode))
	e.WriteRaw(ex.Disputes.Encode(0))
	e.WriteBlob(ex.Reserved)
	return e.Bytes()
}

func DecodeExtrinsic(d *codec.Decoder, b ExtrinsicBounds) (*Extrinsic, error) {
	ex := &Extrinsic{}
	tickets, err := codec.DecodeVarSeq(d, b.MaxTicketsPerExtrinsic, DecodeTicketSubmission)
	if err != nil {
		return nil, err
	}
	ex.Tickets = tickets

	preimages, err := codec.DecodeVarSeq(d, b.MaxPreimages, DecodePreimageSubmission)
	if err != nil {
		return nil, err
	}
	ex.Preimages = preimages

	guarantees, err := codec.DecodeVarSeq(d, b.MaxGuarantees, func(dd *codec.Decoder) (Guarantee, error) {
		return DecodeGuarantee(dd, b.MaxGuaranteeSignatures)
	})
	if err != nil {
		return nil, err
	}
	ex.Guarantees = guarantees

	assurances, err := codec.DecodeVarSeq(d, b.MaxAssurances, DecodeAssurance)
	if err != nil {
		return nil, err
	}
	ex.Assurances = assurances

	disputes, err := DecodeDisputes(d, b.ValidatorCount, b.MaxDisputeEntries)
	if err != nil {
		return nil, err
	}
	ex.Disputes = disputes

	reserved, err := d.DecodeBlob()
	if err != nil {
		return nil, err
	}
	ex.Reserved = reserved
	return ex, nil
}
