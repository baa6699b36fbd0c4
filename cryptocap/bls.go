package cryptocap

import (
	blst "github.com/supranational/blst/bindings/go"
)

// blsDST is the domain separation tag used for BLS verification over the
// bls[144] validator-key component. JAM does not specify a POP scheme, so
// the min-pk basic scheme is used: pubkey in G1 (48-byte compressed),
// signature in G2 (96-byte compressed).
var blsDST = []byte("JAM_BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_")

// BLS is the concrete BLSVerifier backed by github.com/supranational/blst.
type BLS struct{}

func (BLS) VerifyBLS(pubkey []byte, message []byte, sig []byte) bool {
	if len(pubkey) == 0 || len(sig) == 0 {
		return false
	}
	pk := new(blst.P1Affine).Uncompress(pubkey)
	if pk == nil {
		return false
	}
	s := new(blst.P2Affine).Uncompress(sig)
	if s == nil {
		return false
	}
	return s.Verify(true, pk, true, message, blsDST)
}
