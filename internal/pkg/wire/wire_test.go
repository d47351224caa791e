package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/checksum"
)

func TestBuildParseIPv4TCPRoundTrip(t *testing.T) {
	src := [4]byte{192, 168, 1, 10}
	dst := [4]byte{93, 184, 216, 34}
	payload := []byte("GET / HTTP/1.1\r\n\r\n")

	pkt, err := BuildIPv4TCP(src, dst, 51000, 80, 1000, 2000, TCPFlagPSH|TCPFlagACK, payload)
	require.NoError(t, err)

	ipHdr, tcpHdr, got, err := ParseIPv4TCP(pkt)
	require.NoError(t, err)
	require.Equal(t, src, ipHdr.SrcIP)
	require.Equal(t, dst, ipHdr.DstIP)
	require.EqualValues(t, ProtocolTCP, ipHdr.Protocol)
	require.EqualValues(t, 51000, tcpHdr.SrcPort)
	require.EqualValues(t, 80, tcpHdr.DstPort)
	require.EqualValues(t, 1000, tcpHdr.SeqNum)
	require.EqualValues(t, 2000, tcpHdr.AckNum)
	require.Equal(t, payload, got)
}

func TestBuildIPv4TCPChecksumVerifies(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	pkt, err := BuildIPv4TCP(src, dst, 1234, 80, 0, 0, TCPFlagSYN, nil)
	require.NoError(t, err)

	ipHdr, _, _, err := ParseIPv4TCP(pkt)
	require.NoError(t, err)
	require.EqualValues(t, IPv4HeaderLen+TCPHeaderLen, ipHdr.TotalLength)
	require.True(t, checksum.Verify(pkt[:IPv4HeaderLen]), "IPv4 header checksum must verify")
	require.Zero(t, checksum.TCPChecksum(src, dst, pkt[IPv4HeaderLen:]), "TCP checksum must verify against the pseudo-header")
}

func TestFlagsString(t *testing.T) {
	require.Equal(t, "SYN,ACK", FlagsString(TCPFlagSYN|TCPFlagACK))
	require.Equal(t, "NONE", FlagsString(0))
	require.Equal(t, "ACK,FIN", FlagsString(TCPFlagFIN|TCPFlagACK))
}

func TestParseIPv4HeaderRejectsShortBuffer(t *testing.T) {
	_, _, err := ParseIPv4Header([]byte{0x45, 0x00})
	require.Error(t, err)
}
