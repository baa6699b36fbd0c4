package types

import (
	"github.com/jamdev/jamnode/codec"
	blst "github.com/supranational/blst/bindings/go"
)

const (
	BandersnatchKeyLen = 32
	Ed25519KeyLen      = 32
	BLSKeyLen          = 144
	ValidatorMetaLen   = 128
)

// ValidatorKey is the four-tuple identifying a validator in any of the
// staging/active/previous sets, per §3. An all-zero key marks a substituted
// offender slot; rotation preserves ordering and size rather than removing
// the entry.
type ValidatorKey struct {
	Bandersnatch [BandersnatchKeyLen]byte
	Ed25519      [Ed25519KeyLen]byte
	BLS          [BLSKeyLen]byte
	Metadata     [ValidatorMetaLen]byte
}

// IsZero reports whether k is the zero (offender-substituted) key.
func (k ValidatorKey) IsZero() bool {
	return k == ValidatorKey{}
}

// Validate checks the structural validity of the BLS component by
// attempting to deserialize its leading 48 bytes as a compressed BLS12-381
// G1 point. It does not check the Bandersnatch or Ed25519 components, which
// are validated at point-of-use (VRF/ring verification, signature
// verification) rather than on every decode.
func (k ValidatorKey) Validate() error {
	if k.IsZero() {
		return nil
	}
	if new(blst.P1Affine).Uncompress(k.BLS[:48]) == nil {
		return ErrInvalidValidatorKey
	}
	return nil
}

// Encode returns the canonical encoding of the validator key tuple.
func (k ValidatorKey) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(k.Bandersnatch[:])
	e.WriteRaw(k.Ed25519[:])
	e.WriteRaw(k.BLS[:])
	e.WriteRaw(k.Metadata[:])
	return e.Bytes()
}

// DecodeValidatorKey decodes a single validator key tuple.
func DecodeValidatorKey(d *codec.Decoder) (ValidatorKey, error) {
	var k ValidatorKey
	b, err := d.ReadN(BandersnatchKeyLen)
	if err != nil {
		return k, err
	}
	copy(k.Bandersnatch[:], b)
	b, err = d.ReadN(Ed25519KeyLen)
	if err != nil {
		return k, err
	}
	copy(k.Ed25519[:], b)
	b, err = d.ReadN(BLSKeyLen)
	if err != nil {
		return k, err
	}
	copy(k.BLS[:], b)
	b, err = d.ReadN(ValidatorMetaLen)
	if err != nil {
		return k, err
	}
	copy(k.Metadata[:], b)
	return k, nil
}

// ValidatorSet is a fixed-length sq[C_valcount]{ValidatorKey}.
type ValidatorSet []ValidatorKey

func (vs ValidatorSet) Encode() []byte {
	return codec.EncodeFixedSeq(vs, ValidatorKey.Encode)
}

func DecodeValidatorSet(d *codec.Decoder, n int) (ValidatorSet, error) {
	return codec.DecodeFixedSeq(d, n, DecodeValidatorKey)
}
