package types

import (
	"sort"

	"github.com/holiman/uint256"
	"github.com/jamdev/jamnode/codec"
)

// StorageEntry is a single (key, value) pair in a service account's storage
// map, contributing 34+|k|+|v| octets to the account's accounted size.
type StorageEntry struct {
	Key   []byte
	Value []byte
}

// PreimageRequest is a single outstanding preimage lookup request,
// contributing 81+z octets (z the requested preimage length) to the
// account's accounted size.
type PreimageRequest struct {
	Hash   Hash
	Length uint32
}

// ServiceAccount is the per-service record held in the accounts world-state
// component (C(13)), per §3.
type ServiceAccount struct {
	CodeHash   Hash
	Balance    *uint256.Int
	MinAccGas  uint64
	MinMemoGas uint64
	Gratis     uint64
	Created    uint32
	LastAcc    uint32
	Parent     ServiceID
	Storage    []StorageEntry
	Preimages  []PreimageRequest
}

// Items returns the account's computed `items` field: items =
// 2·|requests| + |storage|.
func (a *ServiceAccount) Items() uint64 {
	return 2*uint64(len(a.Preimages)) + uint64(len(a.Storage))
}

// Octets returns the account's computed `octets` field: the sum of
// 81+z over preimage requests plus 34+|k|+|v| over storage entries.
func (a *ServiceAccount) Octets() uint64 {
	var total uint64
	for _, r := range a.Preimages {
		total += 81 + uint64(r.Length)
	}
	for _, s := range a.Storage {
		total += 34 + uint64(len(s.Key)) + uint64(len(s.Value))
	}
	return total
}

// Encode returns the canonical encoding of the account record. Storage and
// preimages are encoded as dictionaries keyed by their natural key
// (storage key, preimage hash) respectively, ordered lexicographically per
// §4.1's dictionary rule.
func (a *ServiceAccount) Encode() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(a.CodeHash.Encode())
	bal := a.Balance.Bytes32()
	e.WriteRaw(bal[:])
	e.WriteFixedUint(a.MinAccGas, 8)
	e.WriteFixedUint(a.MinMemoGas, 8)
	e.WriteCompact(a.Gratis)
	e.WriteCompact(a.Items())
	e.WriteCompact(a.Octets())
	e.WriteFixedUint(uint64(a.Created), 4)
	e.WriteFixedUint(uint64(a.LastAcc), 4)
	e.WriteFixedUint(uint64(a.Parent), 4)

	e.WriteRaw(encodeStorageDict(a.Storage))

	preimageEntries := make([]codec.KV, len(a.Preimages))
	for i, p := range a.Preimages {
		lenBytes, _ := codec.EncodeFixedUint(uint64(p.Length), 4)
		preimageEntries[i] = codec.KV{KeyBytes: p.Hash.Encode(), ValueBytes: lenBytes}
	}
	e.WriteRaw(codec.EncodeDict(preimageEntries))
	return e.Bytes()
}

// DecodeServiceAccount decodes a single account record.
func DecodeServiceAccount(d *codec.Decoder) (*ServiceAccount, error) {
	a := &ServiceAccount{}
	h, err := DecodeHash(d)
	if err != nil {
		return nil, err
	}
	a.CodeHash = h
	balBytes, err := d.ReadN(32)
	if err != nil {
		return nil, err
	}
	a.Balance = new(uint256.Int).SetBytes32(balBytes)
	if a.MinAccGas, err = d.DecodeFixedUint(8); err != nil {
		return nil, err
	}
	if a.MinMemoGas, err = d.DecodeFixedUint(8); err != nil {
		return nil, err
	}
	if a.Gratis, err = d.DecodeCompact(); err != nil {
		return nil, err
	}
	// items/octets are re-derived from the decoded collections below rather
	// than trusted from the wire, so they are consumed and discarded here.
	if _, err = d.DecodeCompact(); err != nil {
		return nil, err
	}
	if _, err = d.DecodeCompact(); err != nil {
		return nil, err
	}
	created, err := d.DecodeFixedUint(4)
	if err != nil {
		return nil, err
	}
	a.Created = uint32(created)
	lastAcc, err := d.DecodeFixedUint(4)
	if err != nil {
		return nil, err
	}
	a.LastAcc = uint32(lastAcc)
	parent, err := d.DecodeFixedUint(4)
	if err != nil {
		return nil, err
	}
	a.Parent = ServiceID(parent)

	storage, err := decodeStorageDict(d)
	if err != nil {
		return nil, err
	}
	a.Storage = storage

	preimageKV, err := decodePreimageDict(d)
	if err != nil {
		return nil, err
	}
	for _, kv := range preimageKV {
		var hsh Hash
		copy(hsh[:], kv.KeyBytes)
		length, _ := codecDecodeFixedUint4(kv.ValueBytes)
		a.Preimages = append(a.Preimages, PreimageRequest{Hash: hsh, Length: length})
	}
	return a, nil
}

// encodeStorageDict encodes the storage map as a variable-length blob over
// key/value pairs ordered by encoded key lexicographically, per §4.1's
// dictionary rule, generalized to arbitrary-width keys (storage keys are
// not fixed-width, unlike a preimage request's hash key).
func encodeStorageDict(entries []StorageEntry) []byte {
	sorted := make([]StorageEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return lessBytesLocal(sorted[i].Key, sorted[j].Key) })
	var body []byte
	for _, s := range sorted {
		body = append(body, codec.EncodeCompact(uint64(len(s.Key)))...)
		body = append(body, s.Key...)
		body = append(body, codec.EncodeCompact(uint64(len(s.Value)))...)
		body = append(body, s.Value...)
	}
	e := codec.NewEncoder()
	e.WriteBlob(body)
	return e.Bytes()
}

func decodeStorageDict(d *codec.Decoder) ([]StorageEntry, error) {
	blob, err := d.DecodeBlob()
	if err != nil {
		return nil, err
	}
	body := codec.NewDecoder(blob)
	var out []StorageEntry
	var prevKey []byte
	for body.Len() > 0 {
		key, err := body.DecodeBlob()
		if err != nil {
			return nil, err
		}
		val, err := body.DecodeBlob()
		if err != nil {
			return nil, err
		}
		if prevKey != nil && !lessBytesLocal(prevKey, key) {
			return nil, codec.ErrDictKeyDisorder
		}
		out = append(out, StorageEntry{Key: key, Value: val})
		prevKey = key
	}
	return out, nil
}

func lessBytesLocal(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func codecDecodeFixedUint4(b []byte) (uint32, error) {
	d := codec.NewDecoder(b)
	v, err := d.DecodeFixedUint(4)
	return uint32(v), err
}

func decodePreimageDict(d *codec.Decoder) ([]codec.KV, error) {
	return codec.DecodeDict(d, HashLength, func(body *codec.Decoder) ([]byte, error) {
		return body.ReadN(4)
	})
}
