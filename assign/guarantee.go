package assign

import (
	"errors"

	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/types"
)

// GuaranteeContext is the domain-separator prefixed to a work-report hash
// before guarantors sign it (§4.5): `X_guarantee ‖ work_report_hash`.
var GuaranteeContext = []byte("jam_guarantee")

var (
	// ErrUnassignedGuarantor is returned when a signature's validator index
	// is not among the validators currently assigned to the guarantee's core.
	ErrUnassignedGuarantor = errors.New("assign: guarantor not assigned to core")
	// ErrMissingGuarantor is returned when a core lacks a signature from one
	// of its assigned validators.
	ErrMissingGuarantor = errors.New("assign: missing signature from assigned guarantor")
	// ErrBadGuarantorSignature is returned when a guarantor signature fails
	// ed25519 verification.
	ErrBadGuarantorSignature = errors.New("assign: invalid guarantor signature")
)

// SignMessage builds the message a guarantor signs over a work-report hash:
// X_guarantee ‖ work_report_hash.
func SignMessage(workReportHash types.Hash) []byte {
	msg := make([]byte, 0, len(GuaranteeContext)+32)
	msg = append(msg, GuaranteeContext...)
	msg = append(msg, workReportHash.Bytes()...)
	return msg
}

// VerifyGuarantee checks that g carries a valid signature from every
// validator assigned to its core in the current slot, and no signature from
// a validator that is not assigned to it. assignedValidators maps a
// validator index to the core it is assigned to for g.Slot; ed25519Keys maps
// validator index to that validator's ed25519 public key.
func VerifyGuarantee(g types.Guarantee, assignedValidators []uint32, ed25519Keys [][32]byte, v cryptocap.Ed25519Verifier) error {
	required := CoGuarantors(assignedValidators, uint32(g.Core))
	msg := SignMessage(g.WorkReportHash)

	seen := make(map[types.ValidatorIndex]bool, len(g.Signatures))
	for _, sig := range g.Signatures {
		idx := int(sig.ValidatorIndex)
		if idx < 0 || idx >= len(assignedValidators) || assignedValidators[idx] != uint32(g.Core) {
			return ErrUnassignedGuarantor
		}
		if !v.VerifyEd25519(ed25519Keys[idx], msg, sig.Signature) {
			return ErrBadGuarantorSignature
		}
		seen[sig.ValidatorIndex] = true
	}
	for _, idx := range required {
		if !seen[types.ValidatorIndex(idx)] {
			return ErrMissingGuarantor
		}
	}
	return nil
}
