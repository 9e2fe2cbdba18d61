package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/raphi011/prj/internal/storage"
)

const fileName = "history.json"

type fileFormat struct {
	MaxSize int     `json:"max_size"`
	Entries []Entry `json:"entries"`
}

// DefaultPath returns ~/.prj/history.json (or $PRJ_HOME/history.json).
func DefaultPath() (string, error) {
	return storage.StateFile(fileName)
}

// MarshalJSON encodes the tracker's entries in recency order.
func (t *Tracker) MarshalJSON() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(fileFormat{MaxSize: t.maxSize, Entries: entries})
}

// UnmarshalJSON replaces the tracker's entries. A stored max size is only
// used when the tracker has none; entries beyond the max size are dropped.
// Only the first entry of a duplicated id is kept, and entries are reordered
// newest first.
func (t *Tracker) UnmarshalJSON(data []byte) error {
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxSize <= 0 {
		t.maxSize = f.MaxSize
	}
	if t.maxSize <= 0 {
		t.maxSize = DefaultMaxSize
	}
	t.entries = t.entries[:0]
	seen := make(map[string]bool, len(f.Entries))
	for _, e := range f.Entries {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		t.entries = append(t.entries, e)
	}
	slices.SortStableFunc(t.entries, func(a, b Entry) int {
		return b.LastAccess.Compare(a.LastAccess)
	})
	t.trim()
	return nil
}

// Load reads a tracker from path. A missing file yields an empty tracker;
// a corrupted one is an error.
func Load(path string, maxSize int, opts ...Option) (*Tracker, error) {
	t := New(maxSize, opts...)
	if err := storage.LoadJSON(path, t); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("load history %s: %w", path, err)
	}
	return t, nil
}

// Save writes the tracker to path atomically.
func (t *Tracker) Save(path string) error {
	return storage.SaveJSON(path, t)
}

// Update loads the tracker at path, applies fn and saves the result while
// holding the file lock.
func Update(path string, maxSize int, fn func(*Tracker) error) error {
	return storage.WithLock(path, func() error {
		t, err := Load(path, maxSize)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		return t.Save(path)
	})
}

// RecordAccess marks id as most recently used in the history at path.
func RecordAccess(path string, maxSize int, id string, metadata map[string]string) error {
	return Update(path, maxSize, func(t *Tracker) error {
		t.Access(id, metadata)
		return nil
	})
}
