package types

import (
	"golang.org/x/crypto/blake2b"

	"github.com/jamdev/jamnode/codec"
)

// Block is a header paired with its extrinsic, per §3/§6:
// `encode(Block) = encode(Header) ‖ encode(Extrinsic)`.
type Block struct {
	Header    *Header
	Extrinsic *Extrinsic
}

func (b *Block) Encode(epochLen int) []byte {
	e := codec.NewEncoder()
	e.WriteRaw(b.Header.Encode(epochLen))
	e.WriteRaw(b.Extrinsic.Encode())
	return e.Bytes()
}

func DecodeBlock(d *codec.Decoder, epochLen, numValidators, maxOffenders int, bounds ExtrinsicBounds) (*Block, error) {
	h, err := DecodeHeader(d, epochLen, numValidators, maxOffenders)
	if err != nil {
		return nil, err
	}
	ex, err := DecodeExtrinsic(d, bounds)
	if err != nil {
		return nil, err
	}
	return &Block{Header: h, Extrinsic: ex}, nil
}

// ExtrinsicHash returns the blake2b-256 digest of the extrinsic's encoding,
// the value a header's ExtrinsicHash field must match.
func ExtrinsicHash(ex *Extrinsic) Hash {
	return blake2bHash(ex.Encode())
}

func blake2bHash(b []byte) Hash {
	return Hash(blake2b.Sum256(b))
}
