// Package bioadapter is the byte-stream façade over a raw tcpconn.Connection
// that lets crypto/tls.Client drive the hand-rolled TCP engine as if it were
// an ordinary net.Conn. The underlying connection's Receive can return more
// bytes than the TLS engine asked for in one read (it returns whole packet
// payloads); this adapter holds the remainder in a pull-ahead buffer so no
// trailing byte is ever lost.
package bioadapter

import (
	"net"
	"time"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/tcpconn"
)

var _ net.Conn = (*Conn)(nil)

// maxReadChunk bounds how much Connection.Receive is asked to accumulate
// per Read call; large enough for a TLS record, small enough to keep the
// pull-ahead buffer bounded.
const maxReadChunk = 16384

// engine is the subset of *tcpconn.Connection this adapter drives; kept as
// an interface so tests can substitute a fake without a real raw socket.
type engine interface {
	Receive(maxLen int) ([]byte, error)
	Send(payload []byte) (int, error)
	TCB() tcpconn.TCB
}

// Conn wraps a *tcpconn.Connection and implements net.Conn. It borrows the
// connection: Close does not close it, ownership stays with whoever built
// both. Like the connection it wraps, a Conn is not safe for concurrent
// use by multiple goroutines.
type Conn struct {
	conn engine

	pending []byte // pull-ahead buffer: unconsumed bytes from a prior over-read
}

// New wraps conn. conn must already be ESTABLISHED.
func New(conn *tcpconn.Connection) *Conn {
	return &Conn{conn: conn}
}

// Read implements net.Conn. It serves the pull-ahead buffer first; once
// drained, it pulls a fresh batch from the underlying connection. A zero-
// byte read from the connection (a soft receive timeout with nothing
// accumulated) is reported as (0, nil) rather than an error: crypto/tls's
// record reader (readFromUntil, via bytes.Buffer.ReadFrom) only stops
// looping on a non-nil error or io.EOF, so (0, nil) is what actually makes
// it re-enter the read instead of latching the connection as failed —
// io.ErrNoProgress does not satisfy net.Error's Temporary() check there
// and would be treated as fatal.
func (c *Conn) Read(p []byte) (int, error) {
	if len(c.pending) > 0 {
		n := copy(p, c.pending)
		c.pending = c.pending[n:]
		if len(c.pending) == 0 {
			c.pending = nil
		}
		return n, nil
	}

	data, err := c.conn.Receive(len(p) + maxReadChunk)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	if len(data) <= len(p) {
		return copy(p, data), nil
	}
	n := copy(p, data[:len(p)])
	c.pending = append(c.pending, data[len(p):]...)
	return n, nil
}

// Write forwards verbatim to the connection's Send.
func (c *Conn) Write(p []byte) (int, error) {
	return c.conn.Send(p)
}

// Close is a no-op on the underlying connection: the adapter borrows it,
// it does not own it.
func (c *Conn) Close() error { return nil }

func (c *Conn) LocalAddr() net.Addr  { tcb := c.conn.TCB(); return tcb.Local }
func (c *Conn) RemoteAddr() net.Addr { tcb := c.conn.TCB(); return tcb.Remote }

// SetDeadline and its Read/Write variants are accepted and ignored: the
// engine's own timeouts (the 5s handshake budget, the 30s receive
// deadline) are fixed per spec, independent of whatever a TLS stack above
// this adapter requests.
func (c *Conn) SetDeadline(t time.Time) error      { return nil }
func (c *Conn) SetReadDeadline(t time.Time) error  { return nil }
func (c *Conn) SetWriteDeadline(t time.Time) error { return nil }
