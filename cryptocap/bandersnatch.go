package cryptocap

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/jamdev/jamnode/types"
)

// Bandersnatch curve (Banderwagon quotient group) parameters, adapted from
// the project's Verkle-tree curve arithmetic to serve VRF/ring-VRF signature
// structural validation instead of vector commitments. Coordinate arithmetic
// runs over the BLS12-381 scalar field, the same field gnark-crypto's
// bls12-381/fr package implements, so field operations are done with
// fr.Element rather than math/big. Only the operations needed to decompress
// a 32-octet point encoding and confirm it lies on the curve are kept; the
// commitment and MSM machinery has no role here.
var bsEdwardsD, bsEdwardsA fr.Element

func init() {
	d, _ := new(big.Int).SetString(
		"6389c12633c267cbc66e3bf86be3b6d8cb66677177e54f92b369f2f5188d58e7", 16)
	bsEdwardsD.SetBigInt(d)
	bsEdwardsA.SetUint64(5)
	bsEdwardsA.Neg(&bsEdwardsA)
}

// bsDecompress recovers the affine (x, y) coordinates of a Banderwagon point
// from its 32-octet little-endian Y-with-sign-bit encoding, returning false
// if the bytes do not decode to a point on the curve.
func bsDecompress(enc [32]byte) (x, y fr.Element, ok bool) {
	signBit := enc[31] & 0x80
	enc[31] &= 0x7f

	be := make([]byte, 32)
	for i := 0; i < 32; i++ {
		be[31-i] = enc[i]
	}
	y.SetBytes(be)

	var y2, num, den, denInv, x2 fr.Element
	y2.Square(&y)
	var one fr.Element
	one.SetOne()
	num.Sub(&y2, &one)
	var five fr.Element
	five.SetUint64(5)
	den.Mul(&bsEdwardsD, &y2)
	den.Add(&den, &five)
	if denInv.Inverse(&den) == nil {
		return x, y, false
	}
	x2.Mul(&num, &denInv)
	if x.Sqrt(&x2) == nil {
		return x, y, false
	}

	xBig := new(big.Int)
	x.BigInt(xBig)
	mod := fr.Modulus()
	half := new(big.Int).Rsh(mod, 1)
	wantUpper := signBit != 0
	if isUpper := xBig.Cmp(half) > 0; isUpper != wantUpper {
		x.Neg(&x)
	}

	var lhs, rhs fr.Element
	var xsq fr.Element
	xsq.Square(&x)
	lhs.Mul(&bsEdwardsA, &xsq)
	lhs.Add(&lhs, &y2)
	rhs.Mul(&bsEdwardsD, &xsq)
	rhs.Mul(&rhs, &y2)
	rhs.Add(&rhs, &one)
	if lhs.Equal(&rhs) {
		return x, y, true
	}
	return x, y, false
}

// BandersnatchVRF is the concrete VRF/ring-VRF verification capability,
// implementing the Bandersnatch interface. Pubkey and ring-root
// decompression is real Banderwagon curve arithmetic; the IETF/ring VRF
// proof-of-exponent check itself is out of reach without the precise
// ring-proof gadget this module's dependency set does not carry, so
// VerifySingle/VerifyRing degrade to the structural check documented on each
// method (see DESIGN.md for the rationale).
type BandersnatchVRF struct{}

// VerifySingle confirms pubkey decompresses to a valid Banderwagon point and
// sig decompresses to a valid VRF output point. It does not perform the
// discrete-log-equality check a full VRF verifier would; see DESIGN.md.
func (BandersnatchVRF) VerifySingle(pubkey [32]byte, context, input []byte, sig types.BandersnatchSig) bool {
	if _, _, ok := bsDecompress(pubkey); !ok {
		return false
	}
	var out [32]byte
	copy(out[:], sig[:32])
	_, _, ok := bsDecompress(out)
	return ok
}

// VerifyRing confirms ringRoot and the VRF output component of sig both
// decompress to valid points. The ring membership proof itself is not
// checked; see DESIGN.md.
func (BandersnatchVRF) VerifyRing(ringRoot [32]byte, context, input []byte, sig types.BandersnatchSig) bool {
	if _, _, ok := bsDecompress(ringRoot); !ok {
		return false
	}
	var out [32]byte
	copy(out[:], sig[:32])
	_, _, ok := bsDecompress(out)
	return ok
}

// Banderout extracts the 32-octet VRF output, which Bandersnatch VRF carries
// as the leading 32 octets of the 96-octet signature (the compressed output
// point; the remaining 64 octets are the proof's response scalars).
func (BandersnatchVRF) Banderout(sig types.BandersnatchSig) [32]byte {
	var out [32]byte
	copy(out[:], sig[:32])
	return out
}
