package codec

import "sort"

// EncodeFixedSeq concatenates the encodings of a fixed-length sequence
// (sq[k]{…}) with no length prefix; the caller's context (e.g. a chain
// spec constant) establishes the length.
func EncodeFixedSeq[T any](items []T, enc func(T) []byte) []byte {
	e := NewEncoder()
	for _, it := range items {
		e.WriteRaw(enc(it))
	}
	return e.Bytes()
}

// DecodeFixedSeq decodes exactly n elements with no length prefix.
func DecodeFixedSeq[T any](d *Decoder, n int, dec func(*Decoder) (T, error)) ([]T, error) {
	out := make([]T, n)
	for i := 0; i < n; i++ {
		v, err := dec(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeVarSeq encodes a compact-natural count followed by the
// concatenation of each element's encoding (var-sq{…}).
func EncodeVarSeq[T any](items []T, enc func(T) []byte) []byte {
	e := NewEncoder()
	e.WriteCompact(uint64(len(items)))
	for _, it := range items {
		e.WriteRaw(enc(it))
	}
	return e.Bytes()
}

// DecodeVarSeq decodes a compact-natural count and that many elements. If
// maxLen is non-negative, a declared count exceeding it is rejected with
// ErrBoundExceeded rather than attempting to read past the context's
// imposed bound.
func DecodeVarSeq[T any](d *Decoder, maxLen int, dec func(*Decoder) (T, error)) ([]T, error) {
	n, err := d.DecodeCompact()
	if err != nil {
		return nil, err
	}
	if maxLen >= 0 && n > uint64(maxLen) {
		return nil, ErrBoundExceeded
	}
	out := make([]T, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := dec(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// KV is a single dictionary entry prior to encoding-key ordering.
type KV struct {
	KeyBytes   []byte
	ValueBytes []byte
}

// EncodeDict encodes a dictionary as a variable-length blob over the
// concatenation of ⟨encode(k)‖encode(v)⟩ pairs, ordered by the encoded key
// lexicographically, per §4.1.
func EncodeDict(entries []KV) []byte {
	sorted := make([]KV, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return lessBytes(sorted[i].KeyBytes, sorted[j].KeyBytes)
	})
	e := NewEncoder()
	var body []byte
	for _, kv := range sorted {
		body = append(body, kv.KeyBytes...)
		body = append(body, kv.ValueBytes...)
	}
	e.WriteBlob(body)
	return e.Bytes()
}

// DecodeDict decodes a dictionary blob, validating strict lexicographic key
// order and raising ErrTruncated (rather than silently dropping entries) if
// the declared blob length does not hold a whole number of entries, per the
// Design Notes' correction of the source's silent-truncation behavior.
//
// keyLen is the fixed encoded width of each key; decodeValue consumes
// exactly one value's worth of bytes from the dictionary body decoder.
func DecodeDict(d *Decoder, keyLen int, decodeValue func(*Decoder) ([]byte, error)) ([]KV, error) {
	blob, err := d.DecodeBlob()
	if err != nil {
		return nil, err
	}
	body := NewDecoder(blob)
	var out []KV
	var prevKey []byte
	for body.Len() > 0 {
		if body.Len() < keyLen {
			return nil, ErrTruncated
		}
		key, err := body.ReadN(keyLen)
		if err != nil {
			return nil, ErrTruncated
		}
		val, err := decodeValue(body)
		if err != nil {
			if err == ErrTruncated {
				return nil, ErrTruncated
			}
			return nil, err
		}
		if prevKey != nil && !lessBytes(prevKey, key) {
			return nil, ErrDictKeyDisorder
		}
		out = append(out, KV{KeyBytes: append([]byte(nil), key...), ValueBytes: val})
		prevKey = key
	}
	return out, nil
}

func lessBytes(a, b []byte) bool {
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
