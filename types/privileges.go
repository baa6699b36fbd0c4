package types

import "github.com/jamdev/jamnode/codec"

// ProtocolVersion selects a versioned compound encoding. Privileges'
// wire layout diverges between 0.7.0 and 0.7.1+; the version MUST be
// supplied explicitly by the caller (never inferred from byte length),
// per the Design Notes.
type ProtocolVersion int

const (
	V0_7_0 ProtocolVersion = iota
	V0_7_1
)

// AlwaysAccumulate maps a service ID to a guaranteed gas allowance.
type AlwaysAccumulate struct {
	ServiceID ServiceID
	Gas       uint64
}

// Privileges is the privileges world-state component (C(12)), per §3/§4.1.
type Privileges struct {
	Manager          ServiceID
	Delegator        ServiceID
	Registrar        ServiceID // absent (zero) under V0_7_0
	Assigners        []ServiceID // one per core
	AlwaysAccumulate []AlwaysAccumulate
}

// Encode returns the canonical encoding for the given protocol version.
//
// V0_7_1 (current): manager ‖ delegator ‖ registrar ‖ sq[C_corecount]{serviceid}
// ‖ dict{serviceid→gas}.
// V0_7_0 (earlier): omits registrar and permutes the remaining fields:
// delegator precedes manager, and the always-accumulate dictionary precedes
// the per-core assigners sequence.
func (p *Privileges) Encode(version ProtocolVersion) ([]byte, error) {
	e := codec.NewEncoder()
	switch version {
	case V0_7_1:
		e.WriteFixedUint(uint64(p.Manager), 4)
		e.WriteFixedUint(uint64(p.Delegator), 4)
		e.WriteFixedUint(uint64(p.Registrar), 4)
		e.WriteRaw(codec.EncodeFixedSeq(p.Assigners, encodeServiceID))
		e.WriteRaw(encodeAlwaysAccumulateDict(p.AlwaysAccumulate))
	case V0_7_0:
		e.WriteFixedUint(uint64(p.Delegator), 4)
		e.WriteFixedUint(uint64(p.Manager), 4)
		e.WriteRaw(encodeAlwaysAccumulateDict(p.AlwaysAccumulate))
		e.WriteRaw(codec.EncodeFixedSeq(p.Assigners, encodeServiceID))
	default:
		return nil, ErrUnsupportedVersion
	}
	return e.Bytes(), nil
}

// DecodePrivileges decodes a Privileges record under the given version.
// numCores is the chain-spec's C_corecount, sizing the fixed assigners
// sequence.
func DecodePrivileges(d *codec.Decoder, version ProtocolVersion, numCores int) (*Privileges, error) {
	p := &Privileges{}
	switch version {
	case V0_7_1:
		m, err := d.DecodeFixedUint(4)
		if err != nil {
			return nil, err
		}
		p.Manager = ServiceID(m)
		del, err := d.DecodeFixedUint(4)
		if err != nil {
			return nil, err
		}
		p.Delegator = ServiceID(del)
		reg, err := d.DecodeFixedUint(4)
		if err != nil {
			return nil, err
		}
		p.Registrar = ServiceID(reg)
		assigners, err := codec.DecodeFixedSeq(d, numCores, decodeServiceID)
		if err != nil {
			return nil, err
		}
		p.Assigners = assigners
		aa, err := decodeAlwaysAccumulateDict(d)
		if err != nil {
			return nil, err
		}
		p.AlwaysAccumulate = aa
	case V0_7_0:
		del, err := d.DecodeFixedUint(4)
		if err != nil {
			return nil, err
		}
		p.Delegator = ServiceID(del)
		m, err := d.DecodeFixedUint(4)
		if err != nil {
			return nil, err
		}
		p.Manager = ServiceID(m)
		aa, err := decodeAlwaysAccumulateDict(d)
		if err != nil {
			return nil, err
		}
		p.AlwaysAccumulate = aa
		assigners, err := codec.DecodeFixedSeq(d, numCores, decodeServiceID)
		if err != nil {
			return nil, err
		}
		p.Assigners = assigners
	default:
		return nil, ErrUnsupportedVersion
	}
	return p, nil
}

func encodeServiceID(id ServiceID) []byte {
	b, _ := codec.EncodeFixedUint(uint64(id), 4)
	return b
}

func decodeServiceID(d *codec.Decoder) (ServiceID, error) {
	v, err := d.DecodeFixedUint(4)
	return ServiceID(v), err
}

func encodeAlwaysAccumulateDict(entries []AlwaysAccumulate) []byte {
	kvs := make([]codec.KV, len(entries))
	for i, a := range entries {
		kvs[i] = codec.KV{KeyBytes: encodeServiceID(a.ServiceID), ValueBytes: encodeGas(a.Gas)}
	}
	return codec.EncodeDict(kvs)
}

func decodeAlwaysAccumulateDict(d *codec.Decoder) ([]AlwaysAccumulate, error) {
	kvs, err := codec.DecodeDict(d, 4, func(body *codec.Decoder) ([]byte, error) {
		return body.ReadN(8)
	})
	if err != nil {
		return nil, err
	}
	out := make([]AlwaysAccumulate, len(kvs))
	for i, kv := range kvs {
		var sid uint32
		sd := codec.NewDecoder(kv.KeyBytes)
		v, _ := sd.DecodeFixedUint(4)
		sid = uint32(v)
		gd := codec.NewDecoder(kv.ValueBytes)
		gas, _ := gd.DecodeFixedUint(8)
		out[i] = AlwaysAccumulate{ServiceID: ServiceID(sid), Gas: gas}
	}
	return out, nil
}

func encodeGas(gas uint64) []byte {
	b, _ := codec.EncodeFixedUint(gas, 8)
	return b
}
