// Package tcpconn implements the hand-rolled TCP engine: the three-way
// handshake, sequence/ack bookkeeping, the filtering receive loop, and
// best-effort teardown, all driven over a raw socket instead of the
// kernel's TCP/IP stack.
package tcpconn

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/herrors"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/netprobe"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/rawsock"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/tcpstate"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/wire"
)

const (
	handshakeBudget   = 5 * time.Second
	handshakePollSlice = 100 * time.Millisecond

	receiveDeadline   = 30 * time.Second
	receivePollSlice  = 300 * time.Millisecond
	receiveMaxAttempts = 100
	receiveDrainTries = 10

	srcPortLow  = 10000
	srcPortHigh = 65535

	readBufSize = 65536
)

// Connection is the engine: it owns exactly one TCB and one raw socket.
// Not safe for concurrent use — a single connection is driven by one
// goroutine, matching the source's single-threaded, synchronous contract.
type Connection struct {
	tcb     TCB
	machine *tcpstate.Machine
	sock    *rawsock.Socket
}

// New returns a Connection in CLOSED, with no socket yet.
func New() *Connection {
	return &Connection{machine: tcpstate.New()}
}

// State returns the current TCB state, for diagnostics and tests.
func (c *Connection) State() tcpstate.State { return c.machine.State() }

// TCB exposes a copy of the current transmission control block, for
// diagnostics and tests.
func (c *Connection) TCB() TCB { return c.tcb }

// Connect resolves host's first IPv4 address, discovers the local source
// address, opens a raw socket, and drives the SYN/SYN-ACK/ACK handshake to
// completion within a 5 second total budget.
func (c *Connection) Connect(ctx context.Context, host string, port uint16) error {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		return herrors.New(herrors.KindResolution, "tcpconn.Connect", fmt.Errorf("resolve %s: %w", host, err))
	}
	dstIP4 := ips[0].To4()
	if dstIP4 == nil {
		return herrors.New(herrors.KindResolution, "tcpconn.Connect", fmt.Errorf("%s did not resolve to IPv4", host))
	}
	var dstIP [4]byte
	copy(dstIP[:], dstIP4)

	localStr, err := netprobe.LocalAddressFor(dstIP4.String())
	if err != nil {
		return herrors.New(herrors.KindResolution, "tcpconn.Connect", err)
	}
	localIP4 := net.ParseIP(localStr).To4()
	if localIP4 == nil {
		return herrors.New(herrors.KindResolution, "tcpconn.Connect", fmt.Errorf("local probe returned non-IPv4 %q", localStr))
	}
	var localIP [4]byte
	copy(localIP[:], localIP4)

	srcPort := uint16(srcPortLow + rand.Intn(srcPortHigh-srcPortLow+1))

	sock, err := rawsock.Open()
	if err != nil {
		return herrors.New(herrors.KindPrivilege, "tcpconn.Connect", err)
	}

	c.tcb = TCB{
		Local:  wire.TCPEndpoint{IP: localIP, Port: srcPort},
		Remote: wire.TCPEndpoint{IP: dstIP, Port: port},
	}

	isn := rand.Uint32()
	c.tcb.SndNxt = isn
	c.tcb.RcvNxt = 0

	if err := c.sendSegment(sock, wire.TCPFlagSYN, isn, 0, nil); err != nil {
		sock.Close()
		return herrors.New(herrors.KindSocket, "tcpconn.Connect", err)
	}
	c.machine.SendSYN()

	if err := sock.SetReadTimeout(handshakePollSlice); err != nil {
		sock.Close()
		return herrors.New(herrors.KindSocket, "tcpconn.Connect", err)
	}

	established, err := c.pollForSYNACK(sock, isn)
	if err != nil {
		sock.Close()
		return herrors.New(herrors.KindConnection, "tcpconn.Connect", err)
	}
	if !established {
		sock.Close()
		return herrors.New(herrors.KindConnection, "tcpconn.Connect", fmt.Errorf("handshake timed out after %s", handshakeBudget))
	}

	if err := c.sendSegment(sock, wire.TCPFlagACK, c.tcb.SndNxt, c.tcb.RcvNxt, nil); err != nil {
		sock.Close()
		return herrors.New(herrors.KindSocket, "tcpconn.Connect", err)
	}

	c.sock = sock
	return nil
}

// pollForSYNACK polls the raw socket in handshakePollSlice increments until
// a matching SYN-ACK arrives or the overall handshakeBudget elapses.
func (c *Connection) pollForSYNACK(sock *rawsock.Socket, isn uint32) (bool, error) {
	buf := make([]byte, readBufSize)
	deadline := time.Now().Add(handshakeBudget)

	for time.Now().Before(deadline) {
		n, timedOut, err := sock.Receive(buf)
		if err != nil {
			return false, err
		}
		if timedOut {
			continue
		}
		ipHdr, tcpHdr, _, err := wire.ParseIPv4TCP(buf[:n])
		if err != nil {
			continue // malformed packet, silently dropped
		}
		if !c.tcb.matches(ipHdr.SrcIP, ipHdr.DstIP, tcpHdr.SrcPort, tcpHdr.DstPort) {
			continue // foreign packet
		}
		if tcpHdr.Flags&wire.TCPFlagRST != 0 {
			return false, fmt.Errorf("received RST from %s during handshake", c.tcb.Remote)
		}
		const synAck = wire.TCPFlagSYN | wire.TCPFlagACK
		if tcpHdr.Flags&synAck == synAck && tcpHdr.AckNum == isn+1 {
			c.tcb.SndNxt = isn + 1
			c.tcb.RcvNxt = tcpHdr.SeqNum + 1
			c.machine.ReceiveSYNACK()
			return true, nil
		}
	}
	return false, nil
}

// Send transmits payload as a single PSH|ACK segment. The TCB must be
// ESTABLISHED; no segmentation, no retransmission — the caller owns MTU
// and reliability concerns, by design, so smuggling payloads reach the
// wire exactly as constructed.
func (c *Connection) Send(payload []byte) (int, error) {
	if c.machine.State() != tcpstate.Established {
		return 0, herrors.New(herrors.KindConnection, "tcpconn.Send", fmt.Errorf("send on non-ESTABLISHED connection (state %s)", c.machine.State()))
	}
	if err := c.sendSegment(c.sock, wire.TCPFlagPSH|wire.TCPFlagACK, c.tcb.SndNxt, c.tcb.RcvNxt, payload); err != nil {
		return 0, herrors.New(herrors.KindSocket, "tcpconn.Send", err)
	}
	c.tcb.SndNxt += uint32(len(payload))
	return len(payload), nil
}

// Receive accumulates inbound payload bytes belonging to this connection's
// 4-tuple, filtering out everything else the raw socket delivers. It
// returns within a 30 second deadline and a 100 poll attempt cap; once the
// first payload has arrived it makes up to 10 further quick attempts to
// drain more of the same flow before returning. A timeout with nothing
// accumulated returns an empty slice, not an error.
func (c *Connection) Receive(maxLen int) ([]byte, error) {
	if err := c.sock.SetReadTimeout(receivePollSlice); err != nil {
		return nil, herrors.New(herrors.KindSocket, "tcpconn.Receive", err)
	}
	buf := make([]byte, readBufSize)
	var acc []byte
	deadline := time.Now().Add(receiveDeadline)

	for attempts := 0; attempts < receiveMaxAttempts && len(acc) == 0 && time.Now().Before(deadline); attempts++ {
		n, timedOut, err := sockReceive(c.sock, buf)
		if err != nil {
			return acc, herrors.New(herrors.KindSocket, "tcpconn.Receive", err)
		}
		if timedOut {
			if len(acc) > 0 {
				break
			}
			continue
		}
		payload, ok := c.acceptSegment(buf[:n])
		if !ok || len(payload) == 0 {
			continue
		}
		acc = append(acc, payload...)
	}

	for i := 0; i < receiveDrainTries && len(acc) > 0 && time.Now().Before(deadline); i++ {
		n, timedOut, err := sockReceive(c.sock, buf)
		if err != nil || timedOut {
			continue
		}
		payload, ok := c.acceptSegment(buf[:n])
		if !ok || len(payload) == 0 {
			continue
		}
		acc = append(acc, payload...)
	}

	if maxLen > 0 && len(acc) > maxLen {
		acc = acc[:maxLen]
	}
	return acc, nil
}

// acceptSegment parses an inbound datagram and, if it belongs to this
// connection's 4-tuple, updates RcvNxt and returns its payload. Foreign
// segments and parse failures are silently dropped (ok=false).
func (c *Connection) acceptSegment(buf []byte) (payload []byte, ok bool) {
	ipHdr, tcpHdr, pay, err := wire.ParseIPv4TCP(buf)
	if err != nil {
		return nil, false
	}
	if !c.tcb.matches(ipHdr.SrcIP, ipHdr.DstIP, tcpHdr.SrcPort, tcpHdr.DstPort) {
		return nil, false
	}
	if len(pay) == 0 {
		return nil, true
	}
	// Idempotent update: a retransmission carries the same seq/len and
	// re-sets RcvNxt to the same absolute value.
	c.tcb.RcvNxt = tcpHdr.SeqNum + uint32(len(pay))
	return pay, true
}

// Close performs a best-effort active close: if ESTABLISHED, it emits a
// single FIN|ACK and does not wait for the peer's FIN. Idempotent, never
// returns an error.
func (c *Connection) Close() error {
	if c.sock == nil {
		return nil
	}
	if c.machine.State() == tcpstate.Established {
		_ = c.sendSegment(c.sock, wire.TCPFlagFIN|wire.TCPFlagACK, c.tcb.SndNxt, c.tcb.RcvNxt, nil)
		c.machine.SendFIN()
	}
	_ = c.sock.Close()
	c.machine.Close()
	c.sock = nil
	return nil
}

func (c *Connection) sendSegment(sock *rawsock.Socket, flags uint8, seq, ack uint32, payload []byte) error {
	pkt, err := wire.BuildIPv4TCP(c.tcb.Local.IP, c.tcb.Remote.IP, c.tcb.Local.Port, c.tcb.Remote.Port, seq, ack, flags, payload)
	if err != nil {
		return fmt.Errorf("build segment: %w", err)
	}
	_, err = sock.Send(pkt, c.tcb.Remote.IP, c.tcb.Remote.Port)
	return err
}

// sockReceive is a tiny indirection point kept for testability; production
// code always calls through to *rawsock.Socket.
var sockReceive = func(sock *rawsock.Socket, buf []byte) (int, bool, error) {
	return sock.Receive(buf)
}
