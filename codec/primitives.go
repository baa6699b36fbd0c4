package codec

import (
	"encoding/binary"
)

// compact-natural integer mode boundaries, per §4.1. Each mode's tag consumes
// one more leading one-bit than the last (0, 10, 110, 11110), which halves
// the value bits available to the previous mode's naive capacity: mode 1's
// 14 usable bits top out at 16384 rather than the 15 a plain two-byte field
// would allow, and mode 2's 5 tag-adjacent bits plus two trailing octets top
// out at 2^21 rather than 2^24. Mode 3 picks up everything from there.
const (
	mode0Max = 1 << 6  // 64
	mode1Max = 1 << 14 // 16384
	mode2Max = 1 << 21 // 2097152
)

// Encoder accumulates bytes for the composite encodings built on top of the
// primitives below. It never returns an error: callers are expected to pass
// values already known to fit their declared width (EncodeFixedUint reports
// ErrOverflow when used standalone), and WriteFixedUint panics on a value
// that does not fit.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

// WriteRaw appends raw bytes with no framing, used when a caller already
// has a pre-encoded sub-value (e.g. a nested compound type).
func (e *Encoder) WriteRaw(b []byte) { e.buf = append(e.buf, b...) }

// WriteCompact appends the compact-natural encoding of n.
func (e *Encoder) WriteCompact(n uint64) { e.buf = append(e.buf, EncodeCompact(n)...) }

// WriteFixedUint appends the k-octet little-endian encoding of n. Panics if
// n does not fit in k octets; callers are expected to validate widths
// ahead of time the way EncodeFixedUint does when used standalone.
func (e *Encoder) WriteFixedUint(n uint64, k int) {
	b, err := EncodeFixedUint(n, k)
	if err != nil {
		panic(err)
	}
	e.buf = append(e.buf, b...)
}

// WriteBool appends the single-octet boolean encoding.
func (e *Encoder) WriteBool(v bool) { e.buf = append(e.buf, EncodeBool(v)...) }

// WriteBlob appends the compact-length-prefixed encoding of b (var{x}).
func (e *Encoder) WriteBlob(b []byte) {
	e.WriteCompact(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// EncodeCompact returns the shortest-mode compact-natural encoding of n, per
// §4.1 and the literal boundaries in §8 (Compact integer boundaries).
func EncodeCompact(n uint64) []byte {
	switch {
	case n < mode0Max:
		return []byte{byte(n)}
	case n < mode1Max:
		return []byte{0x80 | byte(n>>8), byte(n)}
	case n < mode2Max:
		return []byte{
			0xC0 | byte(n>>16),
			byte(n >> 8),
			byte(n),
		}
	default:
		// mode 3: one length byte 0xF0|(width-4) followed by width
		// little-endian octets, width the minimal value in {4,...,8} that
		// fits n.
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], n)
		width := 4
		for width < 8 && n>>(uint(width)*8) != 0 {
			width++
		}
		out := make([]byte, 0, 1+width)
		out = append(out, 0xF0|byte(width-4))
		out = append(out, tmp[:width]...)
		return out
	}
}

// EncodeFixedUint returns the k-octet little-endian encoding of n. It
// returns ErrOverflow if n does not fit in k octets (k must be in [1,8]).
func EncodeFixedUint(n uint64, k int) ([]byte, error) {
	if k < 1 || k > 8 {
		return nil, newErr(ErrKindLengthMismatch, "fixed width out of supported range [1,8]")
	}
	if k < 8 && n>>(uint(k)*8) != 0 {
		return nil, ErrOverflow
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], n)
	out := make([]byte, k)
	copy(out, tmp[:k])
	return out, nil
}

// EncodeBool returns the single-octet boolean encoding.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{0x01}
	}
	return []byte{0x00}
}

// Decoder consumes a JAM-encoded byte stream from the front, tracking the
// unconsumed remainder so stream-structured messages can chain (§4.1's
// round-trip property requires decode to surface remaining bytes).
type Decoder struct {
	b []byte
}

// NewDecoder wraps b for sequential decoding.
func NewDecoder(b []byte) *Decoder { return &Decoder{b: b} }

// Remaining returns the unconsumed suffix of the original input.
func (d *Decoder) Remaining() []byte { return d.b }

// Len returns the number of unconsumed bytes.
func (d *Decoder) Len() int { return len(d.b) }

// ReadByte consumes and returns a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if len(d.b) < 1 {
		return 0, ErrTruncated
	}
	v := d.b[0]
	d.b = d.b[1:]
	return v, nil
}

// ReadN consumes and returns exactly n bytes.
func (d *Decoder) ReadN(n int) ([]byte, error) {
	if n < 0 || len(d.b) < n {
		return nil, ErrTruncated
	}
	v := d.b[:n]
	d.b = d.b[n:]
	return v, nil
}

// ReadFixed32 consumes exactly 32 bytes, the width of a Hash/Signature
// component, into a fixed array.
func (d *Decoder) ReadFixed32() ([32]byte, error) {
	var out [32]byte
	b, err := d.ReadN(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// DecodeCompact consumes and returns a compact-natural integer. It rejects
// any encoding that is not the shortest possible mode for its value
// (§8 Codec rejection).
func (d *Decoder) DecodeCompact() (uint64, error) {
	first, err := d.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case first&0x80 == 0:
		return uint64(first), nil
	case first&0xC0 == 0x80:
		rest, err := d.ReadByte()
		if err != nil {
			return 0, err
		}
		n := uint64(first&0x3F)<<8 | uint64(rest)
		if n < mode0Max {
			return 0, ErrOverlong
		}
		return n, nil
	case first&0xE0 == 0xC0:
		rest, err := d.ReadN(2)
		if err != nil {
			return 0, err
		}
		n := uint64(first&0x1F)<<16 | uint64(rest[0])<<8 | uint64(rest[1])
		if n < mode1Max {
			return 0, ErrOverlong
		}
		return n, nil
	case first&0xF8 == 0xF0:
		width := int(first&0x07) + 4
		if width > 8 {
			return 0, newErr(ErrKindOverlong, "invalid compact-integer mode-3 width")
		}
		rest, err := d.ReadN(width)
		if err != nil {
			return 0, err
		}
		var tmp [8]byte
		copy(tmp[:], rest)
		n := binary.LittleEndian.Uint64(tmp[:])
		// Reject non-minimal widths: the value must require all of the
		// declared octets (unless width is already the minimum, 4).
		if width > 4 && n>>(uint(width-1)*8) == 0 {
			return 0, ErrOverlong
		}
		if n < mode2Max {
			return 0, ErrOverlong
		}
		return n, nil
	default:
		return 0, newErr(ErrKindOverlong, "invalid compact-integer mode tag")
	}
}

// DecodeFixedUint consumes exactly k little-endian octets and returns the
// resulting integer.
func (d *Decoder) DecodeFixedUint(k int) (uint64, error) {
	if k < 1 || k > 8 {
		return 0, newErr(ErrKindLengthMismatch, "fixed width out of supported range [1,8]")
	}
	b, err := d.ReadN(k)
	if err != nil {
		return 0, err
	}
	var tmp [8]byte
	copy(tmp[:], b)
	return binary.LittleEndian.Uint64(tmp[:]), nil
}

// DecodeBool consumes a single boolean octet, rejecting anything outside
// {0x00, 0x01}.
func (d *Decoder) DecodeBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrBadBoolean
	}
}

// DecodeBlob consumes a compact-length-prefixed blob (var{x}), validating
// that exactly that many octets follow.
func (d *Decoder) DecodeBlob() ([]byte, error) {
	n, err := d.DecodeCompact()
	if err != nil {
		return nil, err
	}
	return d.ReadN(int(n))
}

// EncodeOptional appends the presence octet and, if present, inner's
// encoding.
func EncodeOptional(present bool, inner []byte) []byte {
	if !present {
		return []byte{0x00}
	}
	out := make([]byte, 0, 1+len(inner))
	out = append(out, 0x01)
	out = append(out, inner...)
	return out
}

// DecodeOptionalPresent consumes the presence octet, returning whether the
// inner value follows.
func (d *Decoder) DecodeOptionalPresent() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, newErr(ErrKindBadBoolean, "optional tag out of range")
	}
}
