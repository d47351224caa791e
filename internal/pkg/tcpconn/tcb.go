package tcpconn

import "github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/wire"

// TCB is the per-connection mutable record: the classical Transmission
// Control Block, trimmed to exactly what this engine's single-segment
// send/receive model needs. SndNxt/RcvNxt are only meaningful once the
// handshake has moved the connection into ESTABLISHED.
type TCB struct {
	SndNxt uint32
	RcvNxt uint32
	Local  wire.TCPEndpoint
	Remote wire.TCPEndpoint
}

// matches reports whether an inbound segment's endpoints belong to this
// TCB's 4-tuple (foreign-packet filter).
func (t *TCB) matches(srcIP, dstIP [4]byte, srcPort, dstPort uint16) bool {
	return srcIP == t.Remote.IP && dstIP == t.Local.IP &&
		srcPort == t.Remote.Port && dstPort == t.Local.Port
}
