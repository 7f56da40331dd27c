package wal

import (
	"fmt"
	"os"
	"sort"
	"time"
)

// RetentionConfig controls how many old, already-applied WAL segments are
// kept around after a flush has made them unnecessary for recovery.
type RetentionConfig struct {
	// MaxSegments caps the number of non-active segments retained. Zero
	// means unlimited.
	MaxSegments int

	// MaxAge discards segments older than this, regardless of count. Zero
	// means no age-based eviction.
	MaxAge time.Duration
}

// ApplyRetention deletes old WAL segments in dir, never touching
// activeSegmentPath (the currently-open segment). It returns the number of
// files removed.
func ApplyRetention(dir string, activeSegmentPath string, cfg RetentionConfig) (int, error) {
	files, err := FindSegments(dir)
	if err != nil {
		return 0, err
	}

	type withTime struct {
		path    string
		modTime time.Time
	}
	var candidates []withTime
	for _, f := range files {
		if f == activeSegmentPath {
			continue
		}
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		candidates = append(candidates, withTime{f, info.ModTime()})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime.Before(candidates[j].modTime) })

	toDelete := make(map[string]bool)
	if cfg.MaxSegments > 0 && len(candidates) > cfg.MaxSegments {
		for _, c := range candidates[:len(candidates)-cfg.MaxSegments] {
			toDelete[c.path] = true
		}
	}
	if cfg.MaxAge > 0 {
		now := time.Now()
		for _, c := range candidates {
			if now.Sub(c.modTime) > cfg.MaxAge {
				toDelete[c.path] = true
			}
		}
	}

	deleted := 0
	for path := range toDelete {
		if err := os.Remove(path); err != nil {
			return deleted, fmt.Errorf("wal: remove segment %s: %w", path, err)
		}
		deleted++
	}
	return deleted, nil
}
