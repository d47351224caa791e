// Package herrors defines the closed set of error categories the raw-socket
// HTTP engine can fail with, replacing the mixed exception/bool/-1 return
// discipline of the system this engine's algorithms were distilled from.
package herrors

import "fmt"

// Kind classifies the layer that produced an error.
type Kind int

const (
	KindPrivilege Kind = iota
	KindResolution
	KindSocket
	KindConnection
	KindTLS
	KindHTTP
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindPrivilege:
		return "privilege"
	case KindResolution:
		return "resolution"
	case KindSocket:
		return "socket"
	case KindConnection:
		return "connection"
	case KindTLS:
		return "tls"
	case KindHTTP:
		return "http"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the wrapped error type returned by the engine's higher-level
// operations (tcpconn, tlssession, httpresp, the CLI). Lower-level helpers
// such as rawsock and netprobe return plain errors that their callers wrap
// in an Error, and httpresp.Parse reports a missing header terminator with
// its own ErrIncomplete sentinel. Op names the failing operation (e.g.
// "tcpconn.Connect").
type Error struct {
	Kind   Kind
	Op     string
	Status int // optional HTTP status code, only meaningful for KindHTTP
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err under the given kind and operation name. err may be nil.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewHTTP wraps an HTTP-layer failure that carries a status code.
func NewHTTP(op string, status int, err error) *Error {
	return &Error{Kind: KindHTTP, Op: op, Status: status, Err: err}
}

// Is supports errors.Is comparisons against a bare Kind sentinel created
// with New(kind, "", nil).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
