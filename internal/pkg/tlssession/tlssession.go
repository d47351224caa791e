// Package tlssession wraps crypto/tls.Client over a bioadapter.Conn so a
// standard TLS implementation drives the hand-rolled raw TCP engine as if
// it were a normal byte stream.
package tlssession

import (
	"context"
	"crypto/tls"
	"errors"
	"net"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/bioadapter"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/herrors"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/tcpconn"
)

// Session is a thin wrapper over *tls.Conn: SNI, optional peer
// verification, handshake, and record-level Send/Receive. It also holds
// the raw tcpconn.Connection underneath the bioadapter façade, because the
// façade deliberately never closes what it borrows (§4.7) — Close must
// reach through it to tear down the raw connection itself.
type Session struct {
	conn      *tls.Conn
	transport *tcpconn.Connection
}

// Handshake wraps transport in a bioadapter.Conn, creates a client-side TLS
// context over it, sets ServerName to host for SNI, disables certificate
// verification when verify is false (testing/research only), and runs the
// handshake to completion. transport must already be ESTABLISHED.
func Handshake(ctx context.Context, transport *tcpconn.Connection, host string, verify bool, cache tls.ClientSessionCache) (*Session, error) {
	cfg := &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: !verify,
		ClientSessionCache: cache,
	}
	conn := tls.Client(bioadapter.New(transport), cfg)
	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, herrors.New(herrors.KindTLS, "tlssession.Handshake", err)
	}
	return &Session{conn: conn, transport: transport}, nil
}

// Send writes p as TLS application data.
func (s *Session) Send(p []byte) (int, error) {
	n, err := s.conn.Write(p)
	if err != nil {
		return n, herrors.New(herrors.KindTLS, "tlssession.Send", err)
	}
	return n, nil
}

// Receive reads decrypted application data into p.
func (s *Session) Receive(p []byte) (int, error) {
	n, err := s.conn.Read(p)
	if err != nil {
		return n, herrors.New(herrors.KindTLS, "tlssession.Receive", err)
	}
	return n, nil
}

// NegotiatedVersion returns the negotiated protocol version string, e.g.
// "TLSv1.3", for diagnostics.
func (s *Session) NegotiatedVersion() string {
	return versionString(s.conn.ConnectionState().Version)
}

// CipherSuite returns the negotiated cipher suite's name, for diagnostics.
func (s *Session) CipherSuite() string {
	return tls.CipherSuiteName(s.conn.ConnectionState().CipherSuite)
}

// Close initiates a bidirectional TLS close_notify, then closes the
// underlying raw TCP connection. Idempotent, mirroring
// tcpconn.Connection.Close's own idempotent contract.
func (s *Session) Close() error {
	tlsErr := s.conn.Close()
	connErr := s.transport.Close()
	if tlsErr != nil && !errors.Is(tlsErr, net.ErrClosed) {
		return herrors.New(herrors.KindTLS, "tlssession.Close", tlsErr)
	}
	if connErr != nil {
		return herrors.New(herrors.KindConnection, "tlssession.Close", connErr)
	}
	return nil
}

func versionString(v uint16) string {
	switch v {
	case tls.VersionTLS10:
		return "TLSv1.0"
	case tls.VersionTLS11:
		return "TLSv1.1"
	case tls.VersionTLS12:
		return "TLSv1.2"
	case tls.VersionTLS13:
		return "TLSv1.3"
	default:
		return "unknown"
	}
}
