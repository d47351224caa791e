package httpresp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBasicResponse(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")
	resp, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.1", resp.Version)
	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, "OK", resp.StatusMessage)
	require.Equal(t, "5", resp.Header("Content-Length"))
	require.Equal(t, []byte("hello"), resp.Body)
	require.True(t, resp.Complete)
}

func TestParseReturnsIncompleteWithoutTerminator(t *testing.T) {
	_, err := Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n"))
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestParseLastValueWinsOnDuplicateHeader(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nX-Foo: first\r\nX-Foo: second\r\n\r\n")
	resp, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "second", resp.Header("X-Foo"))
}

func TestIsChunkedDetectsSubstringCaseInsensitive(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: Chunked\r\n\r\n")
	resp, err := Parse(raw)
	require.NoError(t, err)
	require.True(t, resp.IsChunked())
}

func TestHeaderLookupIsCaseInsensitive(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\ncontent-type: text/plain\r\n\r\n")
	resp, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "text/plain", resp.Header("Content-Type"))
}
