// Package wire builds and parses the IPv4 and TCP headers this engine
// hand-crafts instead of delegating to the kernel network stack.
package wire

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/checksum"
)

const (
	IPv4HeaderLen  = 20
	IPv4Version    = 4
	IPv4DefaultTTL = 64

	ProtocolTCP = 6
)

// IPv4Header is the fixed 20-byte IPv4 header this engine emits; it never
// sets the options field.
type IPv4Header struct {
	TotalLength uint16
	ID          uint16
	TTL         uint8
	Protocol    uint8
	Checksum    uint16
	SrcIP       [4]byte
	DstIP       [4]byte
}

// BuildIPv4Header renders an IPv4 header (no options) for a payload of
// payloadLen bytes, computing and embedding the header checksum.
func BuildIPv4Header(src, dst [4]byte, protocol uint8, payloadLen int) ([]byte, error) {
	total := IPv4HeaderLen + payloadLen
	if total > 0xffff {
		return nil, fmt.Errorf("wire: ipv4 total length %d exceeds uint16", total)
	}
	b := make([]byte, IPv4HeaderLen)
	b[0] = (IPv4Version << 4) | (IPv4HeaderLen / 4)
	b[1] = 0 // TOS
	binary.BigEndian.PutUint16(b[2:4], uint16(total))
	binary.BigEndian.PutUint16(b[4:6], uint16(rand.Intn(0x10000)))
	binary.BigEndian.PutUint16(b[6:8], 0) // flags + fragment offset
	b[8] = IPv4DefaultTTL
	b[9] = protocol
	binary.BigEndian.PutUint16(b[10:12], 0) // checksum placeholder
	copy(b[12:16], src[:])
	copy(b[16:20], dst[:])

	sum := checksum.Sum(b)
	binary.BigEndian.PutUint16(b[10:12], sum)
	return b, nil
}

// ParseIPv4Header parses a 20-byte (no-options) IPv4 header and returns it
// alongside the header length actually present (which may exceed 20 if the
// sender included options; the caller is responsible for skipping them).
func ParseIPv4Header(b []byte) (*IPv4Header, int, error) {
	if len(b) < IPv4HeaderLen {
		return nil, 0, fmt.Errorf("wire: short ipv4 header (%d bytes)", len(b))
	}
	ihl := int(b[0]&0x0f) * 4
	if ihl < IPv4HeaderLen || ihl > len(b) {
		return nil, 0, fmt.Errorf("wire: invalid ipv4 IHL (%d bytes)", ihl)
	}
	h := &IPv4Header{
		TotalLength: binary.BigEndian.Uint16(b[2:4]),
		ID:          binary.BigEndian.Uint16(b[4:6]),
		TTL:         b[8],
		Protocol:    b[9],
		Checksum:    binary.BigEndian.Uint16(b[10:12]),
	}
	copy(h.SrcIP[:], b[12:16])
	copy(h.DstIP[:], b[16:20])
	return h, ihl, nil
}
