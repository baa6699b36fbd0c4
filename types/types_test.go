package types

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/jamdev/jamnode/codec"
)

func TestHeaderRoundTripNoMarks(t *testing.T) {
	h := &Header{
		Parent:         Hash{1},
		PriorStateRoot: Hash{2},
		ExtrinsicHash:  Hash{3},
		Timeslot:       42,
		OffendersMark:  []Hash{{9}},
		AuthorIndex:    7,
	}
	enc := h.Encode(12)
	d := codec.NewDecoder(enc)
	got, err := DecodeHeader(d, 12, 6, 16)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got.Timeslot != h.Timeslot || got.AuthorIndex != h.AuthorIndex {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.EpochMark != nil || got.WinnersMark != nil {
		t.Fatalf("expected absent marks, got %+v / %+v", got.EpochMark, got.WinnersMark)
	}
	if d.Len() != 0 {
		t.Errorf("leftover bytes: %d", d.Len())
	}
}

func TestHeaderRoundTripWithMarks(t *testing.T) {
	h := &Header{
		Parent:         Hash{1},
		PriorStateRoot: Hash{2},
		ExtrinsicHash:  Hash{3},
		Timeslot:       0,
		EpochMark: &EpochMark{
			EntropyAccumulator: Hash{4},
			Entropy1:           Hash{5},
			Validators:         []EpochMarkValidator{{}, {}},
		},
		WinnersMark: []WinningTicket{
			{ID: Hash{6}, EntryIndex: 0},
			{ID: Hash{7}, EntryIndex: 1},
		},
		AuthorIndex: 1,
	}
	enc := h.Encode(2)
	d := codec.NewDecoder(enc)
	got, err := DecodeHeader(d, 2, 2, 16)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got.EpochMark == nil || got.EpochMark.EntropyAccumulator != h.EpochMark.EntropyAccumulator {
		t.Fatalf("epoch mark mismatch: %+v", got.EpochMark)
	}
	if len(got.WinnersMark) != 2 || got.WinnersMark[1].ID != h.WinnersMark[1].ID {
		t.Fatalf("winners mark mismatch: %+v", got.WinnersMark)
	}
	if d.Len() != 0 {
		t.Errorf("leftover bytes: %d", d.Len())
	}
}

func TestPrivilegesRoundTripBothVersions(t *testing.T) {
	p := &Privileges{
		Manager:          1,
		Delegator:        2,
		Registrar:        3,
		Assigners:        []ServiceID{10, 20, 30},
		AlwaysAccumulate: []AlwaysAccumulate{{ServiceID: 5, Gas: 1000}, {ServiceID: 1, Gas: 500}},
	}
	for _, v := range []ProtocolVersion{V0_7_0, V0_7_1} {
		enc, err := p.Encode(v)
		if err != nil {
			t.Fatalf("Encode(%v): %v", v, err)
		}
		d := codec.NewDecoder(enc)
		got, err := DecodePrivileges(d, v, 3)
		if err != nil {
			t.Fatalf("DecodePrivileges(%v): %v", v, err)
		}
		if got.Manager != p.Manager || got.Delegator != p.Delegator {
			t.Errorf("version %v: manager/delegator mismatch: %+v", v, got)
		}
		if v == V0_7_1 && got.Registrar != p.Registrar {
			t.Errorf("version %v: registrar mismatch", v)
		}
		if len(got.AlwaysAccumulate) != 2 || got.AlwaysAccumulate[0].ServiceID != 1 {
			t.Errorf("version %v: always-accumulate dict not sorted/round-tripped: %+v", v, got.AlwaysAccumulate)
		}
		if d.Len() != 0 {
			t.Errorf("version %v: leftover bytes %d", v, d.Len())
		}
	}
}

func TestPrivilegesUnsupportedVersion(t *testing.T) {
	p := &Privileges{}
	if _, err := p.Encode(ProtocolVersion(99)); err != ErrUnsupportedVersion {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestServiceAccountItemsAndOctets(t *testing.T) {
	a := &ServiceAccount{
		Balance: uint256.NewInt(100),
		Storage: []StorageEntry{{Key: []byte("k1"), Value: []byte("v1")}},
		Preimages: []PreimageRequest{
			{Hash: Hash{1}, Length: 10},
			{Hash: Hash{2}, Length: 20},
		},
	}
	if got, want := a.Items(), uint64(2*2+1); got != want {
		t.Errorf("Items() = %d, want %d", got, want)
	}
	wantOctets := uint64(81+10) + uint64(81+20) + uint64(34+2+2)
	if got := a.Octets(); got != wantOctets {
		t.Errorf("Octets() = %d, want %d", got, wantOctets)
	}
}

func TestServiceAccountRoundTrip(t *testing.T) {
	a := &ServiceAccount{
		CodeHash:   Hash{1, 2, 3},
		Balance:    uint256.NewInt(1_000_000),
		MinAccGas:  10,
		MinMemoGas: 20,
		Gratis:     5,
		Created:    100,
		LastAcc:    200,
		Parent:     7,
		Storage: []StorageEntry{
			{Key: []byte("zzz"), Value: []byte("last")},
			{Key: []byte("aaa"), Value: []byte("first")},
		},
		Preimages: []PreimageRequest{{Hash: Hash{9}, Length: 64}},
	}
	enc := a.Encode()
	d := codec.NewDecoder(enc)
	got, err := DecodeServiceAccount(d)
	if err != nil {
		t.Fatalf("DecodeServiceAccount: %v", err)
	}
	if !bytes.Equal(got.Balance.Bytes(), a.Balance.Bytes()) {
		t.Errorf("balance mismatch: %v != %v", got.Balance, a.Balance)
	}
	if len(got.Storage) != 2 || string(got.Storage[0].Key) != "aaa" {
		t.Errorf("storage not sorted/round-tripped: %+v", got.Storage)
	}
	if d.Len() != 0 {
		t.Errorf("leftover bytes: %d", d.Len())
	}
}

func TestDisputesRoundTrip(t *testing.T) {
	ds := Disputes{
		Verdicts: []Verdict{{Target: Hash{1}, Age: 5, Judgments: []Judgment{{Vote: true, Index: 0}}}},
		Culprits: []Culprit{{Target: Hash{2}, Index: 1}},
		Faults:   []Fault{{Target: Hash{3}, Vote: false, Index: 2}},
	}
	enc := ds.Encode(1)
	d := codec.NewDecoder(enc)
	got, err := DecodeDisputes(d, 1, -1)
	if err != nil {
		t.Fatalf("DecodeDisputes: %v", err)
	}
	if len(got.Verdicts) != 1 || len(got.Culprits) != 1 || len(got.Faults) != 1 {
		t.Fatalf("section length mismatch: %+v", got)
	}
	if d.Len() != 0 {
		t.Errorf("leftover bytes: %d", d.Len())
	}
}
