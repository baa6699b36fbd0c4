// Package cryptocap defines the crypto capability interfaces the core
// consumes as external collaborators (§6): blake2b hashing, ed25519
// verification, Bandersnatch VRF/ring verification and banderout extraction,
// and BLS. Capability internals (key generation, proof construction) are
// explicitly out of scope; only the verification-side operations the core
// calls during header/ticket validation are exposed here.
package cryptocap

import "github.com/jamdev/jamnode/types"

// Hasher is the node's blake2b-256 capability.
type Hasher interface {
	Blake2b256(data []byte) types.Hash
}

// Ed25519Verifier verifies ed25519 signatures over a context-bound message,
// used for guarantor signatures (§4.5) and dispute judgments (§4.1).
type Ed25519Verifier interface {
	VerifyEd25519(pubkey [32]byte, message []byte, sig types.Ed25519Sig) bool
}

// Bandersnatch is the VRF/ring-VRF verification capability backing Safrole
// seal verification (§4.3/§4.4). Proof generation is out of scope; only
// verification and banderout extraction are.
type Bandersnatch interface {
	// VerifySingle verifies sig as a Bandersnatch VRF signature over input
	// under the given context and public key.
	VerifySingle(pubkey [32]byte, context, input []byte, sig types.BandersnatchSig) bool
	// VerifyRing verifies sig as a Bandersnatch ring-VRF signature under the
	// given ring root (committing to a validator set), without revealing
	// which ring member signed.
	VerifyRing(ringRoot [32]byte, context, input []byte, sig types.BandersnatchSig) bool
	// Banderout extracts the 32-octet VRF output from a signature.
	Banderout(sig types.BandersnatchSig) [32]byte
}

// BLSVerifier verifies BLS12-381 signatures. JAM's core consensus does not
// currently depend on BLS verification, but the bls[144] component of every
// ValidatorKey is carried through state and must remain structurally
// checkable.
type BLSVerifier interface {
	VerifyBLS(pubkey []byte, message []byte, sig []byte) bool
}

// Suite bundles the capabilities a header validator or Safrole engine needs.
type Suite struct {
	Hasher
	Ed25519Verifier
	Bandersnatch
	BLSVerifier
}
