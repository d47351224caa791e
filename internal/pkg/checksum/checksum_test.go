package checksum

import "testing"

func TestSumFoldsToZeroOverItsOwnField(t *testing.T) {
	b := []byte{0x45, 0x00, 0x00, 0x3c, 0x1c, 0x46, 0x40, 0x00, 0x40, 0x06, 0x00, 0x00, 0xac, 0x10, 0x0a, 0x63, 0xac, 0x10, 0x0a, 0x0c}
	sum := Sum(b)
	binaryPutChecksum(b, sum)
	if !Verify(b) {
		t.Fatalf("expected checksum to verify after writing %#04x back into the header", sum)
	}
}

func binaryPutChecksum(b []byte, sum uint16) {
	b[10] = byte(sum >> 8)
	b[11] = byte(sum)
}

func TestSumIsOrderInsensitiveAcrossWordBoundaries(t *testing.T) {
	a := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	b := []byte{0x05, 0x06, 0x01, 0x02, 0x03, 0x04}
	if Sum(a) != Sum(b) {
		t.Fatalf("checksum should be invariant to reordering whole 16-bit words")
	}
}

func TestSumHandlesOddLength(t *testing.T) {
	b := []byte{0xff, 0xff, 0x01}
	got := Sum(b)
	want := uint16(0xfeff) // 0xffff + 0x0100 = 0x100ff -> fold -> 0x00ff + 1 = 0x0100; ^0x0100 = 0xfeff
	if got != want {
		t.Fatalf("Sum(%x) = %#04x, want %#04x", b, got, want)
	}
}

func TestTCPChecksumRoundTrip(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	segment := make([]byte, 20+4)
	segment[0], segment[1] = 0x1f, 0x90 // src port
	segment[2], segment[3] = 0x00, 0x50 // dst port
	copy(segment[20:], []byte("ping"))

	sum := TCPChecksum(src, dst, segment)
	segment[16] = byte(sum >> 8)
	segment[17] = byte(sum)

	// recomputing with the checksum field populated and included in the
	// pseudo-header sum must fold to zero.
	ph := make([]byte, 12+len(segment))
	copy(ph[0:4], src[:])
	copy(ph[4:8], dst[:])
	ph[9] = tcpProtocolNumber
	ph[10], ph[11] = byte(len(segment)>>8), byte(len(segment))
	copy(ph[12:], segment)
	if !Verify(ph) {
		t.Fatalf("expected pseudo-header+segment checksum to verify")
	}
}
