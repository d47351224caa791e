// Package rawsock wraps the AF_INET/SOCK_RAW/IPPROTO_TCP socket this engine
// sends hand-assembled IPv4+TCP packets through. With IP_HDRINCL set, the
// kernel does not prepend its own IP header — every byte on the wire comes
// from the packet assembler in internal/pkg/wire.
package rawsock

import "time"

// RecvTimeout is the fixed SO_RCVTIMEO applied to every socket this package
// opens, per the engine's single-poll-slice receive contract.
const RecvTimeout = 5 * time.Second

// Socket is the minimal raw-socket surface the TCP engine drives. The
// concrete implementation lives in rawsock_linux.go (the only platform raw
// sockets of this shape are supported on); rawsock_other.go stubs it out
// everywhere else so the rest of the module still builds and tests.
type Socket struct {
	impl socketImpl
}

// socketImpl is satisfied by the platform-specific implementation.
type socketImpl interface {
	send(buf []byte, dstIP [4]byte, dstPort uint16) (int, error)
	receive(buf []byte) (n int, timedOut bool, err error)
	setReadTimeout(d time.Duration) error
	close() error
}

// Open creates and configures a new raw TCP socket. It fails with a
// herrors.KindPrivilege-wrapped error (via the caller) when the process
// lacks CAP_NET_RAW or is not root.
func Open() (*Socket, error) {
	impl, err := newSocketImpl()
	if err != nil {
		return nil, err
	}
	return &Socket{impl: impl}, nil
}

// Send transmits buf (a complete IP+TCP packet) to dstIP. dstPort is set on
// the sockaddr for the kernel's benefit only — the real destination port is
// already encoded inside the TCP header carried in buf.
func (s *Socket) Send(buf []byte, dstIP [4]byte, dstPort uint16) (int, error) {
	return s.impl.send(buf, dstIP, dstPort)
}

// Receive reads one inbound datagram into buf. timedOut is true when
// SO_RCVTIMEO elapsed with nothing available — distinct from a hard error.
func (s *Socket) Receive(buf []byte) (n int, timedOut bool, err error) {
	return s.impl.receive(buf)
}

// SetReadTimeout overrides SO_RCVTIMEO for subsequent Receive calls. Used by
// the TCP connection to shrink the poll slice during the handshake (100ms)
// and the filtering receive loop, independent of the fixed default applied
// at Open.
func (s *Socket) SetReadTimeout(d time.Duration) error {
	return s.impl.setReadTimeout(d)
}

// Close releases the underlying file descriptor. Idempotent.
func (s *Socket) Close() error {
	if s.impl == nil {
		return nil
	}
	err := s.impl.close()
	s.impl = nil
	return err
}

// HasCapabilities probes whether this process can open a raw TCP socket by
// attempting to open and immediately close a throwaway one.
func HasCapabilities() bool {
	s, err := Open()
	if err != nil {
		return false
	}
	_ = s.Close()
	return true
}
