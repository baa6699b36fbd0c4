package types

import "github.com/jamdev/jamnode/codec"

// Judgment is a single validator's vote within a Verdict, per §4.1:
// `vote[1] ‖ encode[2]{index} ‖ signature[64]`.
type Judgment struct {
	Vote      bool
	Index     ValidatorIndex
	Signature Ed25519Sig
}

func (j Judgment) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteBool(j.Vote)
	e.WriteFixedUint(uint64(j.Index), 2)
	e.WriteRaw(j.Signature.Encode())
	return e.Bytes()
}

func DecodeJudgment(d *codec.Decoder) (Judgment, error) {
	var j Judgment
	vote, err := d.DecodeBool()
	if err != nil {
		return j, err
	}
	j.Vote = vote
	idx, err := d.DecodeFixedUint(2)
	if err != nil {
		return j, err
	}
	j.Index = ValidatorIndex(idx)
	sig, err := DecodeEd25519Sig(d)
	if err != nil {
		return j, err
	}
	j.Signature = sig
	return j, nil
}

// Verdict is the outcome of dispute adjudication over a single work-report,
// per §4.1: `target[32] ‖ encode[4]{age} ‖ sq[floor(2·C_valcount/3)+1]{judgment}`.
type Verdict struct {
	Target    Hash
	Age       uint32
	Judgments []Judgment
}

func (v Verdict) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(v.Target.Encode())
	e.WriteFixedUint(uint64(v.Age), 4)
	e.WriteRaw(codec.EncodeFixedSeq(v.Judgments, Judgment.Encode))
	return e.Bytes()
}

// VerdictQuorum returns floor(2*valCount/3)+1, the fixed judgment-sequence
// length for a Verdict under the given validator count.
func VerdictQuorum(valCount int) int { return (2*valCount)/3 + 1 }

func DecodeVerdict(d *codec.Decoder, valCount int) (Verdict, error) {
	var v Verdict
	h, err := DecodeHash(d)
	if err != nil {
		return v, err
	}
	v.Target = h
	age, err := d.DecodeFixedUint(4)
	if err != nil {
		return v, err
	}
	v.Age = uint32(age)
	js, err := codec.DecodeFixedSeq(d, VerdictQuorum(valCount), DecodeJudgment)
	if err != nil {
		return v, err
	}
	v.Judgments = js
	return v, nil
}

// Culprit identifies a validator whose guarantee signed a since-disputed bad
// work-report.
type Culprit struct {
	Target    Hash
	Index     ValidatorIndex
	Signature Ed25519Sig
}

func (c Culprit) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(c.Target.Encode())
	e.WriteFixedUint(uint64(c.Index), 2)
	e.WriteRaw(c.Signature.Encode())
	return e.Bytes()
}

func DecodeCulprit(d *codec.Decoder) (Culprit, error) {
	var c Culprit
	h, err := DecodeHash(d)
	if err != nil {
		return c, err
	}
	c.Target = h
	idx, err := d.DecodeFixedUint(2)
	if err != nil {
		return c, err
	}
	c.Index = ValidatorIndex(idx)
	sig, err := DecodeEd25519Sig(d)
	if err != nil {
		return c, err
	}
	c.Signature = sig
	return c, nil
}

// Fault identifies a validator whose judgment voted against the eventual
// verdict outcome.
type Fault struct {
	Target    Hash
	Vote      bool
	Index     ValidatorIndex
	Signature Ed25519Sig
}

func (f Fault) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(f.Target.Encode())
	e.WriteBool(f.Vote)
	e.WriteFixedUint(uint64(f.Index), 2)
	e.WriteRaw(f.Signature.Encode())
	return e.Bytes()
}

func DecodeFault(d *codec.Decoder) (Fault, error) {
	var f Fault
	h, err := DecodeHash(d)
	if err != nil {
		return f, err
	}
	f.Target = h
	vote, err := d.DecodeBool()
	if err != nil {
		return f, err
	}
	f.Vote = vote
	idx, err := d.DecodeFixedUint(2)
	if err != nil {
		return f, err
	}
	f.Index = ValidatorIndex(idx)
	sig, err := DecodeEd25519Sig(d)
	if err != nil {
		return f, err
	}
	f.Signature = sig
	return f, nil
}

// Disputes is the extrinsic's dispute sub-section: three consecutive
// variable sequences, per §4.1.
type Disputes struct {
	Verdicts []Verdict
	Culprits []Culprit
	Faults   []Fault
}

func (ds Disputes) Encode(valCount int) []byte {
	e := codec.NewEncoder()
	e.WriteRaw(codec.EncodeVarSeq(ds.Verdicts, Verdict.Encode))
	e.WriteRaw(codec.EncodeVarSeq(ds.Culprits, Culprit.Encode))
	e.WriteRaw(codec.EncodeVarSeq(ds.Faults, Fault.Encode))
	return e.Bytes()
}

// DecodeDisputes decodes a Disputes section. maxLen bounds each of the three
// sequences (a chain-spec constant; -1 disables the bound check).
func DecodeDisputes(d *codec.Decoder, valCount, maxLen int) (Disputes, error) {
	var ds Disputes
	verdicts, err := codec.DecodeVarSeq(d, maxLen, func(dd *codec.Decoder) (Verdict, error) {
		return DecodeVerdict(dd, valCount)
	})
	if err != nil {
		return ds, err
	}
	ds.Verdicts = verdicts
	culprits, err := codec.DecodeVarSeq(d, maxLen, DecodeCulprit)
	if err != nil {
		return ds, err
	}
	ds.Culprits = culprits
	faults, err := codec.DecodeVarSeq(d, maxLen, DecodeFault)
	if err != nil {
		return ds, err
	}
	ds.Faults = faults
	return ds, nil
}
