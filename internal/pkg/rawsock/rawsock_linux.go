//go:build linux

package rawsock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// linuxSocket is the real raw-socket implementation, grounded on the
// AF_INET/SOCK_RAW pattern used throughout the pack's raw-socket probes
// (uping's ICMP sender, NeoScan's netraw) but against IPPROTO_TCP with
// IP_HDRINCL so the kernel never touches the IP header this engine builds.
type linuxSocket struct {
	fd int
}

func newSocketImpl() (socketImpl, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("rawsock: open raw socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_HDRINCL, 1); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("rawsock: set IP_HDRINCL: %w", err)
	}
	tv := unix.NsecToTimeval(RecvTimeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("rawsock: set SO_RCVTIMEO: %w", err)
	}
	return &linuxSocket{fd: fd}, nil
}

func (s *linuxSocket) send(buf []byte, dstIP [4]byte, dstPort uint16) (int, error) {
	addr := &unix.SockaddrInet4{Addr: dstIP, Port: int(dstPort)}
	if err := unix.Sendto(s.fd, buf, 0, addr); err != nil {
		return 0, fmt.Errorf("rawsock: sendto: %w", err)
	}
	return len(buf), nil
}

func (s *linuxSocket) receive(buf []byte) (int, bool, error) {
	n, _, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, true, nil
		}
		return 0, false, fmt.Errorf("rawsock: recvfrom: %w", err)
	}
	return n, false, nil
}

func (s *linuxSocket) setReadTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return fmt.Errorf("rawsock: set SO_RCVTIMEO: %w", err)
	}
	return nil
}

func (s *linuxSocket) close() error {
	return unix.Close(s.fd)
}
