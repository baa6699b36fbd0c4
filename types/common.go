// Package types defines the on-chain data structures of a JAM protocol node:
// hashes, signatures, validator keys, service accounts, headers, blocks and
// extrinsics, plus their codec encodings.
package types

import (
	"encoding/hex"

	"github.com/jamdev/jamnode/codec"
)

const (
	HashLength      = 32
	Ed25519SigLen   = 64
	BandersnatchLen = 96
)

// Hash is a 32-octet blake2b-256 digest.
type Hash [HashLength]byte

// Bytes returns the raw digest bytes.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hex-string presentation of the hash. Hex is
// presentation-only; the codec never operates on it.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) Encode() []byte { return h[:] }

func DecodeHash(d *codec.Decoder) (Hash, error) {
	var h Hash
	b, err := d.ReadFixed32()
	if err != nil {
		return h, err
	}
	h = Hash(b)
	return h, nil
}

// Ed25519Sig is a context-bound ed25519 signature.
type Ed25519Sig [Ed25519SigLen]byte

func (s Ed25519Sig) Encode() []byte { return s[:] }

func DecodeEd25519Sig(d *codec.Decoder) (Ed25519Sig, error) {
	var s Ed25519Sig
	b, err := d.ReadN(Ed25519SigLen)
	if err != nil {
		return s, err
	}
	copy(s[:], b)
	return s, nil
}

// BandersnatchSig is a context-bound Bandersnatch VRF/ring signature.
type BandersnatchSig [BandersnatchLen]byte

func (s BandersnatchSig) Encode() []byte { return s[:] }

func DecodeBandersnatchSig(d *codec.Decoder) (BandersnatchSig, error) {
	var s BandersnatchSig
	b, err := d.ReadN(BandersnatchLen)
	if err != nil {
		return s, err
	}
	copy(s[:], b)
	return s, nil
}

// ServiceID identifies a service account within the accounts component.
type ServiceID uint32

// ValidatorIndex indexes into a validator set (active, staging or previous).
type ValidatorIndex uint16

// CoreIndex identifies one of C_corecount cores.
type CoreIndex uint32

func lessHash(a, b Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
