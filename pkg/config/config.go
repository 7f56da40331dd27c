// Package config holds the tunables for the WAL, memtable, and SSTable
// layers: sync behavior, skip-list sizing, block/restart/index layout, and
// Bloom filter target false-positive rate.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// SyncMode selects when a WAL segment is fsynced after an append.
type SyncMode int

const (
	SyncNone      SyncMode = iota // never sync explicitly; rely on OS/periodic flush
	SyncBatch                     // sync once WALSyncBytes have been buffered
	SyncImmediate                 // sync after every append
)

// Config is the full set of tunables governing a storage substrate
// instance. It is safe to read and Update concurrently.
type Config struct {
	Version int `json:"version"`

	// WAL
	WALDir       string   `json:"wal_dir"`
	WALSyncMode  SyncMode `json:"wal_sync_mode"`
	WALSyncBytes int64    `json:"wal_sync_bytes"`
	WALMaxSize   int64    `json:"wal_max_size"`

	// Memtable / skip list
	MemtableMaxBytes   int64   `json:"memtable_max_bytes"`
	SkipListMaxLevel   int     `json:"skiplist_max_level"`
	SkipListPromoteP   float64 `json:"skiplist_promote_probability"`

	// SSTable
	SSTDir             string `json:"sst_dir"`
	SSTableBlockSize   int    `json:"sstable_block_size"`
	SSTableRestartSize int    `json:"sstable_restart_interval"`
	IndexKeyInterval   int    `json:"sstable_index_key_interval"`

	// Bloom filter
	BloomTargetFPR   float64 `json:"bloom_target_fpr"`
	BloomBitsPerKey  int     `json:"bloom_bits_per_key_hint"`

	mu sync.RWMutex
}

// NewDefaultConfig returns a Config with the spec's documented defaults
// rooted at dbPath.
func NewDefaultConfig(dbPath string) *Config {
	return &Config{
		Version: 1,

		WALDir:       filepath.Join(dbPath, "wal"),
		WALSyncMode:  SyncBatch,
		WALSyncBytes: 1024 * 1024,
		WALMaxSize:   64 * 1024 * 1024,

		MemtableMaxBytes: 32 * 1024 * 1024,
		SkipListMaxLevel: 16,
		SkipListPromoteP: 0.25,

		SSTDir:             filepath.Join(dbPath, "sst"),
		SSTableBlockSize:   16 * 1024,
		SSTableRestartSize: 16,
		IndexKeyInterval:   64 * 1024,

		BloomTargetFPR:  0.01,
		BloomBitsPerKey: 10,
	}
}

// Validate reports whether the configuration's values are internally
// consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Version <= 0 {
		return fmt.Errorf("%w: invalid version %d", ErrInvalidConfig, c.Version)
	}
	if c.WALDir == "" {
		return fmt.Errorf("%w: WAL directory not specified", ErrInvalidConfig)
	}
	if c.SSTDir == "" {
		return fmt.Errorf("%w: SSTable directory not specified", ErrInvalidConfig)
	}
	if c.MemtableMaxBytes <= 0 {
		return fmt.Errorf("%w: memtable max bytes must be positive", ErrInvalidConfig)
	}
	if c.SkipListMaxLevel <= 0 {
		return fmt.Errorf("%w: skip list max level must be positive", ErrInvalidConfig)
	}
	if c.SkipListPromoteP <= 0 || c.SkipListPromoteP >= 1 {
		return fmt.Errorf("%w: skip list promote probability must be in (0,1)", ErrInvalidConfig)
	}
	if c.SSTableBlockSize <= 0 {
		return fmt.Errorf("%w: SSTable block size must be positive", ErrInvalidConfig)
	}
	if c.SSTableRestartSize <= 0 {
		return fmt.Errorf("%w: SSTable restart interval must be positive", ErrInvalidConfig)
	}
	if c.BloomTargetFPR <= 0 || c.BloomTargetFPR >= 1 {
		return fmt.Errorf("%w: bloom target FPR must be in (0,1)", ErrInvalidConfig)
	}
	return nil
}

// Update applies fn to the configuration under its write lock.
func (c *Config) Update(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// MarshalJSON snapshots the config under its read lock. The mutex itself is
// never serialized.
func (c *Config) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type snapshot Config
	return json.Marshal((*snapshot)(c))
}
