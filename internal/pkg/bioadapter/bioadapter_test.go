package bioadapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/tcpconn"
)

type fakeEngine struct {
	recvQueue  [][]byte
	recvErr    error
	writes     [][]byte
	writeErr   error
}

func (f *fakeEngine) Receive(maxLen int) ([]byte, error) {
	if f.recvErr != nil {
		return nil, f.recvErr
	}
	if len(f.recvQueue) == 0 {
		return nil, nil
	}
	next := f.recvQueue[0]
	f.recvQueue = f.recvQueue[1:]
	return next, nil
}

func (f *fakeEngine) Send(payload []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), payload...))
	return len(payload), nil
}

func (f *fakeEngine) TCB() tcpconn.TCB { return tcpconn.TCB{} }

func TestReadServesPullAheadBufferBeforeCallingReceiveAgain(t *testing.T) {
	f := &fakeEngine{recvQueue: [][]byte{[]byte("hello world")}}
	c := &Conn{conn: f}

	buf := make([]byte, 5)
	n, err := c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf))
	require.Equal(t, 0, len(f.recvQueue), "the single Receive call should have been consumed")
	require.Equal(t, " world", string(c.pending))

	n, err = c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, " worl", string(buf[:n]))
	require.Equal(t, "d", string(c.pending))

	n, err = c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Nil(t, c.pending)
}

func TestReadOnEmptyReceiveSignalsRetry(t *testing.T) {
	f := &fakeEngine{}
	c := &Conn{conn: f}

	n, err := c.Read(make([]byte, 10))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestWriteForwardsVerbatim(t *testing.T) {
	f := &fakeEngine{}
	c := &Conn{conn: f}

	n, err := c.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, 18, n)
	require.Len(t, f.writes, 1)
	require.Equal(t, "GET / HTTP/1.1\r\n\r\n", string(f.writes[0]))
}

func TestCloseDoesNotCloseUnderlyingConnection(t *testing.T) {
	c := New(nil) // Close must not dereference conn at all.
	require.NoError(t, c.Close())
}
