package assign

import (
	"testing"

	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/types"
)

func sortedCopy(a []uint32) []uint32 {
	out := append([]uint32{}, a...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func TestInitialAssignmentPartition(t *testing.T) {
	a := InitialAssignment(1023, 341)
	counts := make(map[uint32]int)
	for _, c := range a {
		counts[c]++
	}
	if len(counts) != 341 {
		t.Fatalf("len(counts) = %d, want 341", len(counts))
	}
	for core, n := range counts {
		if n != 3 {
			t.Fatalf("core %d appears %d times, want 3", core, n)
		}
	}
}

func TestJamShufflePreservesMultiset(t *testing.T) {
	h := cryptocap.Blake2bHasher{}
	a := make([]uint32, 10)
	for i := range a {
		a[i] = uint32(i)
	}
	var entropy [32]byte
	for i := range entropy {
		entropy[i] = 0xab
	}
	shuffled := JamShuffle(append([]uint32{}, a...), entropy, h)
	if got, want := sortedCopy(shuffled), sortedCopy(a); !equalSlices(got, want) {
		t.Fatalf("shuffled multiset mismatch: got %v want %v", got, want)
	}
}

func TestJamShuffleDeterministicAndEntropySensitive(t *testing.T) {
	h := cryptocap.Blake2bHasher{}
	a := make([]uint32, 10)
	for i := range a {
		a[i] = uint32(i)
	}
	var entropyA, entropyB [32]byte
	for i := range entropyA {
		entropyA[i] = 0xab
	}
	out1 := JamShuffle(append([]uint32{}, a...), entropyA, h)
	out2 := JamShuffle(append([]uint32{}, a...), entropyA, h)
	if !equalSlices(out1, out2) {
		t.Fatalf("jamShuffle is not deterministic: %v != %v", out1, out2)
	}
	out3 := JamShuffle(append([]uint32{}, a...), entropyB, h)
	if equalSlices(out1, out3) {
		t.Fatal("expected different entropy to produce a different permutation")
	}
	if got, want := sortedCopy(out3), sortedCopy(a); !equalSlices(got, want) {
		t.Fatalf("all-zero entropy shuffle must still be a permutation: got %v want %v", got, want)
	}
}

func TestRotateWrapsAroundCoreCount(t *testing.T) {
	permutation := []uint32{0, 1, 2}
	rotated := Rotate(permutation, 7, 3, 3)
	want := []uint32{2, 0, 1}
	if !equalSlices(rotated, want) {
		t.Fatalf("Rotate = %v, want %v", rotated, want)
	}
}

func TestCoGuarantors(t *testing.T) {
	assigned := []uint32{0, 1, 0, 2, 0}
	got := CoGuarantors(assigned, 0)
	want := []int{0, 2, 4}
	if !equalIntSlices(got, want) {
		t.Fatalf("CoGuarantors = %v, want %v", got, want)
	}
}

func equalSlices(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalIntSlices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVerifyGuaranteeRequiresAllAssigned(t *testing.T) {
	assigned := []uint32{0, 0, 1}
	v := stubVerifier{valid: true}
	var reportHash types.Hash
	reportHash[0] = 1

	g := types.Guarantee{
		Core:           0,
		WorkReportHash: reportHash,
		Signatures: []types.GuarantorSignature{
			{ValidatorIndex: 0},
		},
	}
	keys := make([][32]byte, len(assigned))
	if err := VerifyGuarantee(g, assigned, keys, v); err != ErrMissingGuarantor {
		t.Fatalf("err = %v, want ErrMissingGuarantor", err)
	}

	g.Signatures = append(g.Signatures, types.GuarantorSignature{ValidatorIndex: 1})
	if err := VerifyGuarantee(g, assigned, keys, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g.Signatures = append(g.Signatures, types.GuarantorSignature{ValidatorIndex: 2})
	if err := VerifyGuarantee(g, assigned, keys, v); err != ErrUnassignedGuarantor {
		t.Fatalf("err = %v, want ErrUnassignedGuarantor", err)
	}
}

type stubVerifier struct{ valid bool }

func (s stubVerifier) VerifyEd25519(pubkey [32]byte, message []byte, sig types.Ed25519Sig) bool {
	return s.valid
}
