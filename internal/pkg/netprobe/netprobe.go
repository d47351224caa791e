// Package netprobe discovers which local IPv4 address the kernel would pick
// to reach a destination, so the packet assembler can fill in a valid
// source address for hand-crafted IP headers.
package netprobe

import (
	"fmt"
	"net"
)

// discardPort is an arbitrary unused port; UDP Dial never emits a packet,
// it only asks the kernel to pick an outbound route and interface.
const discardPort = 9

// LocalAddressFor opens a UDP socket, "connects" it to dstIP (no packet is
// sent), reads back the local address the kernel bound, and closes the
// probe socket. Returns an error if the destination is unreachable or not
// IPv4.
func LocalAddressFor(dstIP string) (string, error) {
	conn, err := net.Dial("udp4", fmt.Sprintf("%s:%d", dstIP, discardPort))
	if err != nil {
		return "", fmt.Errorf("netprobe: dial %s: %w", dstIP, err)
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || local.IP == nil {
		return "", fmt.Errorf("netprobe: no local address for %s", dstIP)
	}
	v4 := local.IP.To4()
	if v4 == nil {
		return "", fmt.Errorf("netprobe: local address %s is not IPv4", local.IP)
	}
	return v4.String(), nil
}
