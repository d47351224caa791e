package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/checksum"
)

const (
	TCPHeaderLen = 20

	TCPFlagFIN = 1 << 0
	TCPFlagSYN = 1 << 1
	TCPFlagRST = 1 << 2
	TCPFlagPSH = 1 << 3
	TCPFlagACK = 1 << 4
	TCPFlagURG = 1 << 5

	DefaultWindowSize = 65535
)

// TCPHeader is the fixed 20-byte TCP header (no options) this engine
// builds and parses.
type TCPHeader struct {
	SrcPort uint16
	DstPort uint16
	SeqNum  uint32
	AckNum  uint32
	Flags   uint8
	Window  uint16
}

// BuildIPv4TCP assembles a complete IPv4+TCP packet: an IPv4 header (no
// options) over a TCP header (no options) over payload, with both
// checksums computed.
func BuildIPv4TCP(srcIP, dstIP [4]byte, srcPort, dstPort uint16, seq, ack uint32, flags uint8, payload []byte) ([]byte, error) {
	tcpSeg := make([]byte, TCPHeaderLen+len(payload))
	binary.BigEndian.PutUint16(tcpSeg[0:2], srcPort)
	binary.BigEndian.PutUint16(tcpSeg[2:4], dstPort)
	binary.BigEndian.PutUint32(tcpSeg[4:8], seq)
	binary.BigEndian.PutUint32(tcpSeg[8:12], ack)
	tcpSeg[12] = (TCPHeaderLen / 4) << 4 // data offset, no reserved bits
	tcpSeg[13] = flags
	binary.BigEndian.PutUint16(tcpSeg[14:16], DefaultWindowSize)
	binary.BigEndian.PutUint16(tcpSeg[16:18], 0) // checksum placeholder
	binary.BigEndian.PutUint16(tcpSeg[18:20], 0) // urgent pointer
	copy(tcpSeg[TCPHeaderLen:], payload)

	sum := checksum.TCPChecksum(srcIP, dstIP, tcpSeg)
	binary.BigEndian.PutUint16(tcpSeg[16:18], sum)

	ipHdr, err := BuildIPv4Header(srcIP, dstIP, ProtocolTCP, len(tcpSeg))
	if err != nil {
		return nil, fmt.Errorf("wire: build ipv4 header: %w", err)
	}
	return append(ipHdr, tcpSeg...), nil
}

// ParseIPv4TCP parses a full IPv4+TCP packet (no IP or TCP options) and
// returns the IPv4 header, TCP header, and the data payload.
func ParseIPv4TCP(b []byte) (*IPv4Header, *TCPHeader, []byte, error) {
	ipHdr, ihl, err := ParseIPv4Header(b)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("wire: parse ipv4 header: %w", err)
	}
	if ipHdr.Protocol != ProtocolTCP {
		return nil, nil, nil, fmt.Errorf("wire: not a tcp packet (protocol %d)", ipHdr.Protocol)
	}
	rest := b[ihl:]
	if len(rest) < TCPHeaderLen {
		return nil, nil, nil, fmt.Errorf("wire: short tcp header (%d bytes)", len(rest))
	}
	dataOffset := int(rest[12]>>4) * 4
	if dataOffset < TCPHeaderLen || dataOffset > len(rest) {
		return nil, nil, nil, fmt.Errorf("wire: invalid tcp data offset (%d bytes)", dataOffset)
	}
	tcpHdr := &TCPHeader{
		SrcPort: binary.BigEndian.Uint16(rest[0:2]),
		DstPort: binary.BigEndian.Uint16(rest[2:4]),
		SeqNum:  binary.BigEndian.Uint32(rest[4:8]),
		AckNum:  binary.BigEndian.Uint32(rest[8:12]),
		Flags:   rest[13],
		Window:  binary.BigEndian.Uint16(rest[14:16]),
	}

	totalLen := int(ipHdr.TotalLength)
	payloadEnd := len(b)
	if totalLen > 0 && totalLen <= len(b) {
		payloadEnd = totalLen
	}
	payloadStart := ihl + dataOffset
	if payloadStart > payloadEnd {
		payloadStart = payloadEnd
	}
	payload := b[payloadStart:payloadEnd]
	return ipHdr, tcpHdr, payload, nil
}

// FlagsString renders the set TCP flags for logging, in the conventional
// SYN/ACK/FIN/... order.
func FlagsString(flags uint8) string {
	var out string
	add := func(bit uint8, name string) {
		if flags&bit != 0 {
			if out != "" {
				out += ","
			}
			out += name
		}
	}
	add(TCPFlagSYN, "SYN")
	add(TCPFlagACK, "ACK")
	add(TCPFlagFIN, "FIN")
	add(TCPFlagRST, "RST")
	add(TCPFlagPSH, "PSH")
	add(TCPFlagURG, "URG")
	if out == "" {
		return "NONE"
	}
	return out
}
