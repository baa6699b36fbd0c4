// Package telemetry implements the JIP-3 wire framing (§6): a length-
// prefixed envelope around a compact-encoded timestamp, event type, and
// payload, plus the once-per-connection node-info preamble.
package telemetry

import (
	"encoding/binary"
	"errors"

	"github.com/jamdev/jamnode/codec"
)

// EventType tags a telemetry event's payload shape.
type EventType uint64

const (
	EventBlockVerificationFailed EventType = iota
	EventBlockVerified
	EventBlockExecuted
)

// Event is one JIP-3 telemetry message: a microsecond timestamp since the
// JAM epoch, an event type, and an opaque payload.
type Event struct {
	TimestampMicros uint64
	Type            EventType
	Payload         []byte
}

// EncodeContent returns `encode[compact]{timestamp} ‖ encode[compact]
// {event_type} ‖ payload`, the JIP-3 "content" a message frame wraps.
func (e Event) EncodeContent() []byte {
	enc := codec.NewEncoder()
	enc.WriteCompact(e.TimestampMicros)
	enc.WriteCompact(uint64(e.Type))
	enc.WriteRaw(e.Payload)
	return enc.Bytes()
}

// EncodeFrame wraps content in the JIP-3 message frame: `encode[4]
// {size_LE} ‖ content`.
func EncodeFrame(e Event) []byte {
	content := e.EncodeContent()
	frame := make([]byte, 4+len(content))
	binary.LittleEndian.PutUint32(frame[:4], uint32(len(content)))
	copy(frame[4:], content)
	return frame
}

var ErrShortFrame = errors.New("telemetry: frame shorter than its declared size")

// DecodeFrame parses one length-prefixed frame from the front of b,
// returning the decoded event and the number of bytes consumed.
func DecodeFrame(b []byte) (Event, int, error) {
	if len(b) < 4 {
		return Event{}, 0, ErrShortFrame
	}
	size := binary.LittleEndian.Uint32(b[:4])
	if len(b) < 4+int(size) {
		return Event{}, 0, ErrShortFrame
	}
	content := b[4 : 4+int(size)]
	d := codec.NewDecoder(content)
	ts, err := d.DecodeCompact()
	if err != nil {
		return Event{}, 0, err
	}
	et, err := d.DecodeCompact()
	if err != nil {
		return Event{}, 0, err
	}
	return Event{TimestampMicros: ts, Type: EventType(et), Payload: d.Remaining()}, 4 + int(size), nil
}

// NodeInfo is the preamble sent once per connection, never resent across a
// reconnection.
type NodeInfo struct {
	ProtocolVersion uint32
	PeerID          [32]byte
	PeerAddress     [16]byte
	PeerPort        uint16
	NodeFlags       uint32
	ImplName        string // ≤ 32 bytes
	ImplVersion     string // ≤ 32 bytes
	AdditionalInfo  []byte // ≤ 512 bytes
}

func (n NodeInfo) Encode() []byte {
	enc := codec.NewEncoder()
	enc.WriteFixedUint(uint64(n.ProtocolVersion), 4)
	enc.WriteRaw(n.PeerID[:])
	enc.WriteRaw(n.PeerAddress[:])
	enc.WriteFixedUint(uint64(n.PeerPort), 2)
	enc.WriteFixedUint(uint64(n.NodeFlags), 4)
	enc.WriteBlob([]byte(n.ImplName))
	enc.WriteBlob([]byte(n.ImplVersion))
	enc.WriteBlob(n.AdditionalInfo)
	return enc.Bytes()
}
