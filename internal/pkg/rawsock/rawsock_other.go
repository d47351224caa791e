//go:build !linux

package rawsock

import (
	"errors"
	"time"
)

// errUnsupported is returned on every platform other than Linux: this
// engine's raw socket support (IP_HDRINCL over AF_INET/SOCK_RAW/IPPROTO_TCP)
// is implemented for Linux only. Keeping this stub lets the
// rest of the module build and unit-test on any development host; actual
// packet I/O requires Linux and CAP_NET_RAW.
var errUnsupported = errors.New("rawsock: raw TCP sockets are not supported on this platform")

type unsupportedSocket struct{}

func newSocketImpl() (socketImpl, error) {
	return nil, errUnsupported
}

func (unsupportedSocket) send(buf []byte, dstIP [4]byte, dstPort uint16) (int, error) {
	return 0, errUnsupported
}

func (unsupportedSocket) receive(buf []byte) (int, bool, error) {
	return 0, false, errUnsupported
}

func (unsupportedSocket) setReadTimeout(d time.Duration) error { return errUnsupported }

func (unsupportedSocket) close() error { return nil }
