package tlssession

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSessionCacheSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.gob")

	c := NewFileSessionCache(path)
	c.entries["example.com:443"] = []byte{0x01, 0x02, 0x03}
	require.NoError(t, c.Save())

	loaded := NewFileSessionCache(path)
	require.NoError(t, loaded.Load())
	require.Equal(t, []byte{0x01, 0x02, 0x03}, loaded.entries["example.com:443"])
}

func TestFileSessionCachePutNilEntryEvictsKey(t *testing.T) {
	c := NewFileSessionCache(filepath.Join(t.TempDir(), "sessions.gob"))
	c.entries["k"] = []byte{0xff}
	c.Put("k", nil)
	_, ok := c.entries["k"]
	require.False(t, ok)
}

func TestFileSessionCacheGetMissingKey(t *testing.T) {
	c := NewFileSessionCache(filepath.Join(t.TempDir(), "sessions.gob"))
	_, ok := c.Get("missing")
	require.False(t, ok)
}
