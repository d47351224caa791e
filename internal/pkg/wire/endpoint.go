package wire

import "fmt"

// TCPEndpoint is one side of a TCP 4-tuple: an IPv4 address in network
// byte order and a port in host order.
type TCPEndpoint struct {
	IP   [4]byte
	Port uint16
}

func (e TCPEndpoint) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d", e.IP[0], e.IP[1], e.IP[2], e.IP[3], e.Port)
}

// Network satisfies net.Addr so a TCPEndpoint can stand in for
// LocalAddr/RemoteAddr on the bioadapter's net.Conn façade.
func (e TCPEndpoint) Network() string { return "tcp" }
