package telemetry

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	e := Event{TimestampMicros: 123456, Type: EventBlockVerified, Payload: []byte("abc")}
	frame := EncodeFrame(e)

	got, n, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(frame) {
		t.Fatalf("consumed %d, want %d", n, len(frame))
	}
	if got.TimestampMicros != e.TimestampMicros || got.Type != e.Type || !bytes.Equal(got.Payload, e.Payload) {
		t.Fatalf("got %+v, want %+v", got, e)
	}
}

func TestDecodeFrameRejectsShortInput(t *testing.T) {
	if _, _, err := DecodeFrame([]byte{1, 2}); err != ErrShortFrame {
		t.Fatalf("err = %v, want ErrShortFrame", err)
	}
	full := EncodeFrame(Event{Type: EventBlockExecuted})
	if _, _, err := DecodeFrame(full[:len(full)-1]); err != ErrShortFrame {
		t.Fatalf("err = %v, want ErrShortFrame", err)
	}
}

func TestClientSendsNodeInfoOnceAcrossReconnect(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	c := NewClient(NodeInfo{ImplName: "jamnode", ImplVersion: "0.1"})

	c.Connect(&buf1)
	if err := c.SendEvent(Event{Type: EventBlockVerified}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstWrite := buf1.Len()
	if firstWrite == 0 {
		t.Fatal("expected node-info + event frame to be written")
	}

	c.Disconnect()
	if c.Connected() {
		t.Fatal("expected Connected() to be false after Disconnect")
	}

	c.Connect(&buf2)
	if err := c.SendEvent(Event{Type: EventBlockExecuted}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// buf2 must NOT contain the node-info preamble a second time: it should
	// be exactly one JIP-3 frame shorter than the first connection's write.
	_, n, err := DecodeFrame(buf2.Bytes())
	if err != nil {
		t.Fatalf("unexpected error decoding reconnect frame: %v", err)
	}
	if n != buf2.Len() {
		t.Fatalf("expected buf2 to contain exactly one frame with no node-info preamble, consumed %d of %d", n, buf2.Len())
	}
}

func TestSendEventFailsWhenNotConnected(t *testing.T) {
	c := NewClient(NodeInfo{})
	if err := c.SendEvent(Event{}); err != ErrNotConnected {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}
