package telemetry

import (
	"errors"
	"io"
	"sync"
)

// Sender is the transport a Client writes JIP-3 frames to (typically a
// QUIC or TCP stream; a bytes.Buffer in tests).
type Sender interface {
	io.Writer
}

// Client tracks JIP-3 connection state across reconnection attempts.
// nodeInfoSent is intentionally distinct from connected: a reconnect after
// a backoff period reuses the same logical session and MUST NOT resend the
// node-info preamble, even though the underlying transport was dropped and
// re-established.
type Client struct {
	mu           sync.Mutex
	sender       Sender
	connected    bool
	nodeInfoSent bool
	info         NodeInfo
}

func NewClient(info NodeInfo) *Client {
	return &Client{info: info}
}

var ErrNotConnected = errors.New("telemetry: client is not connected")

// Connect attaches sender as the client's transport. It does not, by
// itself, send the node-info preamble; that only happens on the first
// SendEvent call after the client was created, never again across
// reconnects.
func (c *Client) Connect(sender Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sender = sender
	c.connected = true
}

// Disconnect marks the client as disconnected. nodeInfoSent is left
// untouched: the next Connect+SendEvent resumes the same session.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.sender = nil
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SendEvent writes e's JIP-3 frame to the client's transport, prefixed by
// the node-info preamble if this is the first send of the client's
// lifetime.
func (c *Client) SendEvent(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.sender == nil {
		return ErrNotConnected
	}
	if !c.nodeInfoSent {
		if _, err := c.sender.Write(c.info.Encode()); err != nil {
			return err
		}
		c.nodeInfoSent = true
	}
	_, err := c.sender.Write(EncodeFrame(e))
	return err
}
