// Package history tracks the most recently touched projects.
//
// A [Tracker] keeps project IDs in access order, most recent first, bounded
// by a maximum size. It is independent of the scan cache: entries are only
// created by explicit [Tracker.Access] calls. The tracker is persisted to
// ~/.prj/history.json so `prj cd` with no arguments can return to the last
// touched project.
package history

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// DefaultMaxSize bounds the tracker when no size is given.
const DefaultMaxSize = 50

// MergeStrategy decides which entry wins when both trackers know an ID.
type MergeStrategy string

const (
	// MergeLatest keeps whichever entry was accessed more recently.
	MergeLatest MergeStrategy = "latest"
	// MergeKeep keeps the receiver's entry and only adds unknown IDs.
	MergeKeep MergeStrategy = "keep"
)

// ErrUnknownStrategy is returned by Merge for unsupported strategies.
var ErrUnknownStrategy = errors.New("unknown merge strategy")

// ParseMergeStrategy validates a strategy name.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(s) {
	case MergeLatest, MergeKeep:
		return MergeStrategy(s), nil
	}
	return "", fmt.Errorf("%w %q: must be %q or %q", ErrUnknownStrategy, s, MergeLatest, MergeKeep)
}

// Entry is one tracked project.
type Entry struct {
	ID         string            `json:"id"`
	LastAccess time.Time         `json:"last_access"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (e Entry) clone() Entry {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}

// Stats summarizes a tracker.
type Stats struct {
	Size    int       `json:"size"`
	MaxSize int       `json:"max_size"`
	Newest  time.Time `json:"newest,omitzero"`
	Oldest  time.Time `json:"oldest,omitzero"`
}

// Tracker is a bounded most-recently-used registry. Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	maxSize int
	now     func() time.Time
	entries []Entry // most recent first
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates an empty tracker holding at most maxSize entries.
// maxSize <= 0 means DefaultMaxSize.
func New(maxSize int, opts ...Option) *Tracker {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	t := &Tracker{maxSize: maxSize, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// index returns the position of id or -1. Caller holds t.mu.
func (t *Tracker) index(id string) int {
	return slices.IndexFunc(t.entries, func(e Entry) bool { return e.ID == id })
}

// trim drops the oldest entries beyond maxSize. Caller holds t.mu.
func (t *Tracker) trim() {
	if t.maxSize > 0 && len(t.entries) > t.maxSize {
		t.entries = slices.Delete(t.entries, t.maxSize, len(t.entries))
	}
}

// Access records id as the most recent entry. metadata replaces any previous
// metadata for id. Empty IDs are ignored.
func (t *Tracker) Access(id string, metadata map[string]string) {
	if id == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.index(id); i >= 0 {
		t.entries = slices.Delete(t.entries, i, i+1)
	}
	t.entries = slices.Insert(t.entries, 0, Entry{
		ID:         id,
		LastAccess: t.clock(),
		Metadata:   maps.Clone(metadata),
	})
	t.trim()
}

// Recent returns up to limit IDs, most recent first. limit <= 0 returns all.
func (t *Tracker) Recent(limit int) []string {
	entries := t.RecentWithMetadata(limit)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// RecentWithMetadata is like Recent but returns copies of the full entries.
func (t *Tracker) RecentWithMetadata(limit int) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	for i := range n {
		out[i] = t.entries[i].clone()
	}
	return out
}

// Get returns the entry for id.
func (t *Tracker) Get(id string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.index(id); i >= 0 {
		return t.entries[i].clone(), true
	}
	return Entry{}, false
}

// Has reports whether id is tracked.
func (t *Tracker) Has(id string) bool {
	return t.Position(id) >= 0
}

// Position returns the 0-based recency rank of id, or -1.
func (t *Tracker) Position(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index(id)
}

// Remove deletes id. Returns true if it was tracked.
func (t *Tracker) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return false
	}
	t.entries = slices.Delete(t.entries, i, i+1)
	return true
}

// Clear removes every entry.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// Len returns the number of tracked entries.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Stats returns size information and the newest/oldest access times.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{Size: len(t.entries), MaxSize: t.maxSize}
	if len(t.entries) > 0 {
		s.Newest = t.entries[0].LastAccess
		s.Oldest = t.entries[len(t.entries)-1].LastAccess
	}
	return s
}

// Cleanup removes entries last accessed more than maxAge ago and returns how
// many were removed.
func (t *Tracker) Cleanup(maxAge time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.clock().Add(-maxAge)
	before := len(t.entries)
	t.entries = slices.DeleteFunc(t.entries, func(e Entry) bool {
		return e.LastAccess.Before(cutoff)
	})
	return before - len(t.entries)
}

// RemoveStale drops entries whose ID is an absolute path that no longer
// exists on disk. Returns the number removed.
func (t *Tracker) RemoveStale() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := len(t.entries)
	t.entries = slices.DeleteFunc(t.entries, func(e Entry) bool {
		if !filepath.IsAbs(e.ID) {
			return false
		}
		_, err := os.Stat(e.ID)
		return os.IsNotExist(err)
	})
	return before - len(t.entries)
}

// Merge folds other's entries into t. IDs unknown to t are always added;
// for shared IDs the strategy decides. The result is ordered by access time
// and trimmed to t's max size. other is snapshotted before t is locked.
func (t *Tracker) Merge(other *Tracker, strategy MergeStrategy) error {
	if strategy != MergeLatest && strategy != MergeKeep {
		return fmt.Errorf("%w %q", ErrUnknownStrategy, strategy)
	}
	if other == nil || other == t {
		return nil
	}

	incoming := other.RecentWithMetadata(0)

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range incoming {
		i := t.index(e.ID)
		switch {
		case i < 0:
			t.entries = append(t.entries, e)
		case strategy == MergeLatest && e.LastAccess.After(t.entries[i].LastAccess):
			t.entries[i] = e
		}
	}

	slices.SortStableFunc(t.entries, func(a, b Entry) int {
		return b.LastAccess.Compare(a.LastAccess)
	})
	t.trim()
	return nil
}
