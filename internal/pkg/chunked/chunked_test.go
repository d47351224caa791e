package chunked

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeReferenceVector(t *testing.T) {
	got := Encode([]byte("Hello, World!"))
	require.Equal(t, "d\r\nHello, World!\r\n0\r\n\r\n", string(got))
}

func TestDecodeRoundTripForVariousLengths(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("Hello, World!"),
		make([]byte, 4096),
	}
	for _, c := range cases {
		got := Decode(Encode(c))
		require.Equal(t, c, got)
	}
}

func TestDecodeMultipleChunksAndExtension(t *testing.T) {
	raw := []byte("4\r\nWiki\r\n5;ext=1\r\npedia\r\n0\r\n\r\n")
	require.Equal(t, []byte("Wikipedia"), Decode(raw))
}

func TestDecodeIgnoresFinalIncompleteChunk(t *testing.T) {
	raw := []byte("5\r\nHello\r\n3\r\nab") // declares 3 bytes but only 2 present
	require.Equal(t, []byte("Hello"), Decode(raw))
}

func TestDecodeStopsAtZeroLengthChunk(t *testing.T) {
	raw := []byte("0\r\n\r\nextra-bytes-after-terminator-are-ignored")
	require.Equal(t, []byte{}, Decode(raw))
}
