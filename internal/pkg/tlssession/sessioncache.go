package tlssession

import (
	"crypto/tls"
	"encoding/gob"
	"fmt"
	"os"
	"sync"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/herrors"
)

// FileSessionCache implements tls.ClientSessionCache, persisting entries
// as an opaque gob-encoded blob to a caller-given path. This is the
// "optional TLS session export/import as opaque byte blobs" of spec.md §6
// — the format is private to this package's encoding choice and is not a
// stability contract across versions.
type FileSessionCache struct {
	mu      sync.Mutex
	path    string
	entries map[string][]byte // sessionKey -> tls.SessionState.Bytes()
}

// NewFileSessionCache returns a cache backed by path. The file is not read
// until Load is called explicitly, so a fresh cache starts empty even if
// path already exists.
func NewFileSessionCache(path string) *FileSessionCache {
	return &FileSessionCache{path: path, entries: make(map[string][]byte)}
}

// Get implements tls.ClientSessionCache.
func (c *FileSessionCache) Get(sessionKey string) (*tls.ClientSessionState, bool) {
	c.mu.Lock()
	raw, ok := c.entries[sessionKey]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	state, err := tls.ParseSessionState(raw)
	if err != nil {
		return nil, false
	}
	cs, err := tls.NewResumptionState(state)
	if err != nil {
		return nil, false
	}
	return cs, true
}

// Put implements tls.ClientSessionCache.
func (c *FileSessionCache) Put(sessionKey string, cs *tls.ClientSessionState) {
	if cs == nil {
		c.mu.Lock()
		delete(c.entries, sessionKey)
		c.mu.Unlock()
		return
	}
	state, err := cs.ResumptionState()
	if err != nil {
		return
	}
	raw, err := state.Bytes()
	if err != nil {
		return
	}
	c.mu.Lock()
	c.entries[sessionKey] = raw
	c.mu.Unlock()
}

// Save gob-encodes the cache's current entries to its file path.
func (c *FileSessionCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := os.Create(c.path)
	if err != nil {
		return herrors.New(herrors.KindTLS, "tlssession.FileSessionCache.Save", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(c.entries); err != nil {
		return herrors.New(herrors.KindTLS, "tlssession.FileSessionCache.Save", fmt.Errorf("encode: %w", err))
	}
	return nil
}

// Load gob-decodes entries from the cache's file path, replacing whatever
// was in memory.
func (c *FileSessionCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := os.Open(c.path)
	if err != nil {
		return herrors.New(herrors.KindTLS, "tlssession.FileSessionCache.Load", err)
	}
	defer f.Close()
	entries := make(map[string][]byte)
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return herrors.New(herrors.KindTLS, "tlssession.FileSessionCache.Load", fmt.Errorf("decode: %w", err))
	}
	c.entries = entries
	return nil
}
