package cryptocap

import (
	stded25519 "crypto/ed25519"

	"github.com/jamdev/jamnode/types"
)

// Ed25519 is the concrete Ed25519Verifier backed by stdlib crypto/ed25519.
type Ed25519 struct{}

func (Ed25519) VerifyEd25519(pubkey [32]byte, message []byte, sig types.Ed25519Sig) bool {
	return stded25519.Verify(pubkey[:], message, sig[:])
}
