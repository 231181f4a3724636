package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	rcterrors "rct/pkg/errors"
	"rct/pkg/protocol"
)

const defaultHandshakeTimeout = 10 * time.Second

// Conn wraps exactly one live duplex connection to the peer. Messages
// ride one per websocket frame, so they arrive framed and in send order.
//
// Threading contract: Send may be called from any goroutine (writes are
// serialized internally). Receive callbacks run on a single dedicated
// goroutine and never overlap. Close is safe to race against the fault
// path, but callers must not invoke Close concurrently with itself.
// A Conn is never reused after it closes; dial again to retry.
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex

	mu     sync.RWMutex
	closed bool

	onFault   func(error)
	faultOnce sync.Once
}

// Dial establishes a connection to the controller's websocket endpoint.
// On failure any partially opened resources are released before the
// error propagates.
func Dial(url string) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout}

	ws, resp, err := dialer.Dial(url, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("%w: dialing %s: %v", rcterrors.ErrConnectFailed, url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	return &Conn{ws: ws}, nil
}

// Attach wraps an already-upgraded websocket connection. The controller
// uses this for each connection its server accepts.
func Attach(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// OnFault registers the fault callback. Must be called before Start.
// The callback is invoked at most once, after the connection has been
// closed, with the triggering cause.
func (c *Conn) OnFault(fn func(error)) {
	c.onFault = fn
}

// Start spawns the receive goroutine. onMessage is invoked once per
// received message, in arrival order, strictly serialized. Any read
// error escalates through the fault path.
func (c *Conn) Start(onMessage func(*protocol.Message)) {
	go func() {
		for {
			var msg protocol.Message
			if err := c.ws.ReadJSON(&msg); err != nil {
				c.fail(err)
				return
			}
			onMessage(&msg)
		}
	}()
}

// Send serializes and writes one message. A write failure does NOT close
// the connection: closing is the receive loop's and the fault path's
// responsibility, and the next read will escalate the same underlying
// fault.
func (c *Conn) Send(msg *protocol.Message) error {
	if c.IsClosed() {
		return rcterrors.ErrConnClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("sending %s message: %w", msg.Kind, err)
	}
	return nil
}

// Fault escalates a role-level protocol fault (a well-formed message of
// the wrong kind for this endpoint) through the same path as an I/O
// fault: close the connection, then report the cause exactly once.
func (c *Conn) Fault(err error) {
	c.fail(err)
}

// Close tears the connection down. Idempotent: a second call is a no-op.
// The peer's next blocking read fails, firing its fault callback.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.ws.Close()
}

// IsClosed reports whether the connection has been closed, either
// explicitly or by the fault path.
func (c *Conn) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// fail runs the full fault sequence exactly once: mark closed, attempt
// to close the socket swallowing secondary errors, then invoke the
// fault callback with the triggering cause.
func (c *Conn) fail(cause error) {
	c.faultOnce.Do(func() {
		c.mu.Lock()
		alreadyClosed := c.closed
		c.closed = true
		c.mu.Unlock()

		if !alreadyClosed {
			_ = c.ws.Close()
		}

		if c.onFault != nil {
			c.onFault(cause)
		}
	})
}
