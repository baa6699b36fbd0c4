package types

import "github.com/jamdev/jamnode/codec"

// WinningTicket is a single entry of a header's winnersMark: the ticket
// identifier and the attempt index it was submitted with, per §4.1.
type WinningTicket struct {
	ID         Hash
	EntryIndex uint8
}

func (t WinningTicket) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(t.ID.Encode())
	e.WriteFixedUint(uint64(t.EntryIndex), 1)
	return e.Bytes()
}

func DecodeWinningTicket(d *codec.Decoder) (WinningTicket, error) {
	var t WinningTicket
	h, err := DecodeHash(d)
	if err != nil {
		return t, err
	}
	t.ID = h
	idx, err := d.DecodeFixedUint(1)
	if err != nil {
		return t, err
	}
	t.EntryIndex = uint8(idx)
	return t, nil
}

// EpochMarkValidator is a validator's identifying key pair as carried by an
// epoch mark, per §4.3/§4.4 ("epochMark.validators equals stagingset
// element-wise (bandersnatch and ed25519)").
type EpochMarkValidator struct {
	Bandersnatch [BandersnatchKeyLen]byte
	Ed25519      [Ed25519KeyLen]byte
}

func (v EpochMarkValidator) Encode() []byte {
	out := make([]byte, 0, BandersnatchKeyLen+Ed25519KeyLen)
	out = append(out, v.Bandersnatch[:]...)
	out = append(out, v.Ed25519[:]...)
	return out
}

func DecodeEpochMarkValidator(d *codec.Decoder) (EpochMarkValidator, error) {
	var v EpochMarkValidator
	b, err := d.ReadN(BandersnatchKeyLen)
	if err != nil {
		return v, err
	}
	copy(v.Bandersnatch[:], b)
	b, err = d.ReadN(Ed25519KeyLen)
	if err != nil {
		return v, err
	}
	copy(v.Ed25519[:], b)
	return v, nil
}

// EpochMark is the header field present exactly on the first slot of each
// epoch, per §4.3.
type EpochMark struct {
	EntropyAccumulator Hash
	Entropy1           Hash
	Validators         []EpochMarkValidator
}

func (m *EpochMark) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(m.EntropyAccumulator.Encode())
	e.WriteRaw(m.Entropy1.Encode())
	e.WriteRaw(codec.EncodeFixedSeq(m.Validators, EpochMarkValidator.Encode))
	return e.Bytes()
}

func DecodeEpochMark(d *codec.Decoder, numValidators int) (*EpochMark, error) {
	m := &EpochMark{}
	h, err := DecodeHash(d)
	if err != nil {
		return nil, err
	}
	m.EntropyAccumulator = h
	h, err = DecodeHash(d)
	if err != nil {
		return nil, err
	}
	m.Entropy1 = h
	vs, err := codec.DecodeFixedSeq(d, numValidators, DecodeEpochMarkValidator)
	if err != nil {
		return nil, err
	}
	m.Validators = vs
	return m, nil
}

// Header is a block header, per §3/§4.1. Seal and VRF signatures bind the
// header to its author; the unsigned encoding (used as the seal's signed
// message) omits SealSig.
type Header struct {
	Parent          Hash
	PriorStateRoot  Hash
	ExtrinsicHash   Hash
	Timeslot        uint32
	EpochMark       *EpochMark
	WinnersMark     []WinningTicket // len == C_epochlen when present
	OffendersMark   []Hash
	AuthorIndex     ValidatorIndex
	VRFSig          BandersnatchSig
	SealSig         BandersnatchSig
}

// encodeUnsigned writes every field but SealSig, the message the seal
// signature is computed over.
func (h *Header) encodeUnsigned(epochLen int) []byte {
	e := codec.NewEncoder()
	e.WriteRaw(h.Parent.Encode())
	e.WriteRaw(h.PriorStateRoot.Encode())
	e.WriteRaw(h.ExtrinsicHash.Encode())
	e.WriteFixedUint(uint64(h.Timeslot), 4)

	if h.EpochMark != nil {
		e.WriteBool(true)
		e.WriteRaw(h.EpochMark.Encode())
	} else {
		e.WriteBool(false)
	}

	if h.WinnersMark != nil {
		e.WriteBool(true)
		e.WriteRaw(codec.EncodeFixedSeq(h.WinnersMark, WinningTicket.Encode))
	} else {
		e.WriteBool(false)
	}

	e.WriteRaw(codec.EncodeVarSeq(h.OffendersMark, Hash.Encode))
	e.WriteFixedUint(uint64(h.AuthorIndex), 2)
	e.WriteRaw(h.VRFSig.Encode())
	return e.Bytes()
}

// Encode returns the signed header encoding.
func (h *Header) Encode(epochLen int) []byte {
	e := codec.NewEncoder()
	e.WriteRaw(h.encodeUnsigned(epochLen))
	e.WriteRaw(h.SealSig.Encode())
	return e.Bytes()
}

// EncodeUnsigned returns the encoding the seal signature is computed over.
func (h *Header) EncodeUnsigned(epochLen int) []byte { return h.encodeUnsigned(epochLen) }

// DecodeHeader decodes a signed header. epochLen and maxOffenders are
// chain-spec constants needed to size the fixed winnersMark sequence and
// bound the offendersMark sequence respectively.
func DecodeHeader(d *codec.Decoder, epochLen, numValidators, maxOffenders int) (*Header, error) {
	h := &Header{}
	var err error
	if h.Parent, err = DecodeHash(d); err != nil {
		return nil, err
	}
	if h.PriorStateRoot, err = DecodeHash(d); err != nil {
		return nil, err
	}
	if h.ExtrinsicHash, err = DecodeHash(d); err != nil {
		return nil, err
	}
	ts, err := d.DecodeFixedUint(4)
	if err != nil {
		return nil, err
	}
	h.Timeslot = uint32(ts)

	hasEpochMark, err := d.DecodeOptionalPresent()
	if err != nil {
		return nil, err
	}
	if hasEpochMark {
		em, err := DecodeEpochMark(d, numValidators)
		if err != nil {
			return nil, err
		}
		h.EpochMark = em
	}

	hasWinnersMark, err := d.DecodeOptionalPresent()
	if err != nil {
		return nil, err
	}
	if hasWinnersMark {
		wm, err := codec.DecodeFixedSeq(d, epochLen, DecodeWinningTicket)
		if err != nil {
			return nil, err
		}
		h.WinnersMark = wm
	}

	offenders, err := codec.DecodeVarSeq(d, maxOffenders, DecodeHash)
	if err != nil {
		return nil, err
	}
	h.OffendersMark = offenders

	authorIdx, err := d.DecodeFixedUint(2)
	if err != nil {
		return nil, err
	}
	h.AuthorIndex = ValidatorIndex(authorIdx)

	if h.VRFSig, err = DecodeBandersnatchSig(d); err != nil {
		return nil, err
	}
	if h.SealSig, err = DecodeBandersnatchSig(d); err != nil {
		return nil, err
	}
	return h, nil
}
