// Package manifest tracks which SSTable files currently constitute live
// state. It is purely additive bookkeeping: an individual SSTable file
// remains fully self-describing via its own footer, index, and filter
// blocks, and never needs the manifest to be opened or read.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const fileName = "CATALOG"

// TableEntry describes one live SSTable file.
type TableEntry struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	MinKey    []byte `json:"min_key"`
	MaxKey    []byte `json:"max_key"`
	NumEntries int64 `json:"num_entries"`
	SizeBytes int64  `json:"size_bytes"`
	Digest    uint64 `json:"digest"` // xxhash64 of the file contents
}

// Catalog is the durable record of live SSTable files, persisted as a
// single JSON document with atomic tmp-file-then-rename writes.
type Catalog struct {
	dir string

	mu      sync.RWMutex
	Tables  []TableEntry `json:"tables"`
}

// New creates an empty catalog rooted at dir.
func New(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Load reads an existing catalog from dir, or returns an empty one if none
// exists yet.
func Load(dir string) (*Catalog, error) {
	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(dir), nil
		}
		return nil, fmt.Errorf("manifest: read: %w", err)
	}

	c := New(dir)
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	return c, nil
}

// NewTableID generates a unique identifier for a newly written SSTable.
func NewTableID() string {
	return uuid.NewString()
}

// DigestFile computes the xxhash64 digest of an SSTable file's contents,
// recorded in the catalog entry so callers can detect silent corruption
// without re-parsing the footer/index/filter blocks.
func DigestFile(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("manifest: digest: %w", err)
	}
	return xxhash.Sum64(data), nil
}

// Add registers a table in the catalog, replacing any existing entry with
// the same ID.
func (c *Catalog) Add(entry TableEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.Tables {
		if t.ID == entry.ID {
			c.Tables[i] = entry
			return
		}
	}
	c.Tables = append(c.Tables, entry)
}

// Remove deletes a table entry by ID.
func (c *Catalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.Tables {
		if t.ID == id {
			c.Tables = append(c.Tables[:i], c.Tables[i+1:]...)
			return
		}
	}
}

// List returns a snapshot of the current table entries.
func (c *Catalog) List() []TableEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TableEntry, len(c.Tables))
	copy(out, c.Tables)
	return out
}

// Save persists the catalog to dir via a temp-file-then-rename, so a crash
// mid-write never leaves a half-written catalog in place.
func (c *Catalog) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("manifest: mkdir: %w", err)
	}

	path := filepath.Join(c.dir, fileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("manifest: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("manifest: rename: %w", err)
	}
	return nil
}
