package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

// stepClock advances by one minute on every call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func TestAccess_EvictsOldest(t *testing.T) {
	t.Parallel()

	tr := New(5, WithClock(newStepClock().Now))
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		tr.Access(id, nil)
	}

	want := []string{"p6", "p5", "p4", "p3", "p2"}
	if got := tr.Recent(5); !slices.Equal(got, want) {
		t.Errorf("Recent(5) = %v, want %v", got, want)
	}
	if tr.Has("p1") {
		t.Error("p1 should have been evicted")
	}
}

func TestAccess_ReaccessMovesToFront(t *testing.T) {
	t.Parallel()

	tr := New(10, WithClock(newStepClock().Now))
	tr.Access("p1", nil)
	tr.Access("p2", nil)
	tr.Access("p3", nil)
	tr.Access("p1", nil)

	want := []string{"p1", "p3", "p2"}
	if got := tr.Recent(3); !slices.Equal(got, want) {
		t.Errorf("Recent(3) = %v, want %v", got, want)
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
	if pos := tr.Position("p3"); pos != 1 {
		t.Errorf("Position(p3) = %d, want 1", pos)
	}
	if pos := tr.Position("nope"); pos != -1 {
		t.Errorf("Position(nope) = %d, want -1", pos)
	}
}

func TestAccess_IgnoresEmptyID(t *testing.T) {
	t.Parallel()

	tr := New(3)
	tr.Access("", map[string]string{"k": "v"})
	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
}

func TestAccess_ReplacesMetadata(t *testing.T) {
	t.Parallel()

	tr := New(3)
	meta := map[string]string{"branch": "main"}
	tr.Access("p1", meta)
	meta["branch"] = "mutated"

	e, ok := tr.Get("p1")
	if !ok || e.Metadata["branch"] != "main" {
		t.Fatalf("Get(p1) = %+v, %v; want branch=main", e, ok)
	}

	tr.Access("p1", map[string]string{"editor": "vim"})
	e, _ = tr.Get("p1")
	if _, ok := e.Metadata["branch"]; ok {
		t.Error("old metadata should be replaced, not merged")
	}
	if e.Metadata["editor"] != "vim" {
		t.Errorf("editor = %q, want vim", e.Metadata["editor"])
	}
}

func TestRecent_Limits(t *testing.T) {
	t.Parallel()

	tr := New(5)
	tr.Access("a", nil)
	tr.Access("b", nil)

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"b", "a"}},
		{-1, []string{"b", "a"}},
		{1, []string{"b"}},
		{10, []string{"b", "a"}},
	}
	for _, tt := range tests {
		if got := tr.Recent(tt.limit); !slices.Equal(got, tt.want) {
			t.Errorf("Recent(%d) = %v, want %v", tt.limit, got, tt.want)
		}
	}

	if got := New(5).Recent(3); len(got) != 0 {
		t.Errorf("empty tracker Recent = %v", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	tr := New(5)
	tr.Access("a", nil)
	tr.Access("b", nil)

	if !tr.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if tr.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}
	tr.Clear()
	if tr.Len() != 0 {
		t.Errorf("Len() after Clear = %d", tr.Len())
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	clock := newStepClock()
	tr := New(4, WithClock(clock.Now))

	if s := tr.Stats(); s.Size != 0 || s.MaxSize != 4 || !s.Newest.IsZero() {
		t.Errorf("empty Stats() = %+v", s)
	}

	tr.Access("a", nil)
	tr.Access("b", nil)
	s := tr.Stats()
	if s.Size != 2 {
		t.Errorf("Size = %d, want 2", s.Size)
	}
	if !s.Newest.After(s.Oldest) {
		t.Errorf("Newest %v should be after Oldest %v", s.Newest, s.Oldest)
	}
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	current := now.Add(-48 * time.Hour)
	tr := New(5, WithClock(func() time.Time { return current }))

	tr.Access("old", nil)
	current = now.Add(-time.Hour)
	tr.Access("fresh", nil)
	current = now

	if n := tr.Cleanup(24 * time.Hour); n != 1 {
		t.Errorf("Cleanup() removed %d, want 1", n)
	}
	if got := tr.Recent(0); !slices.Equal(got, []string{"fresh"}) {
		t.Errorf("Recent() = %v, want [fresh]", got)
	}
}

func TestRemoveStale(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gone := filepath.Join(dir, "deleted")

	tr := New(5)
	tr.Access(gone, nil)
	tr.Access(dir, nil)
	tr.Access("not-a-path", nil)

	if n := tr.RemoveStale(); n != 1 {
		t.Errorf("RemoveStale() = %d, want 1", n)
	}
	if tr.Has(gone) {
		t.Error("missing path should be removed")
	}
	if !tr.Has("not-a-path") {
		t.Error("relative IDs should be kept")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(min int) Option {
		return WithClock(func() time.Time { return base.Add(time.Duration(min) * time.Minute) })
	}

	build := func() (*Tracker, *Tracker) {
		mine := New(3, at(10))
		mine.Access("shared", map[string]string{"from": "mine"})
		mine2 := New(3, at(5))
		mine2.Access("local", nil)
		if err := mine.Merge(mine2, MergeKeep); err != nil {
			t.Fatal(err)
		}

		theirs := New(3, at(20))
		theirs.Access("shared", map[string]string{"from": "theirs"})
		theirs2 := New(3, at(1))
		theirs2.Access("remote", nil)
		if err := theirs.Merge(theirs2, MergeKeep); err != nil {
			t.Fatal(err)
		}
		return mine, theirs
	}

	tests := []struct {
		strategy MergeStrategy
		wantFrom string
	}{
		{MergeLatest, "theirs"},
		{MergeKeep, "mine"},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			mine, theirs := build()
			if err := mine.Merge(theirs, tt.strategy); err != nil {
				t.Fatalf("Merge() error = %v", err)
			}

			want := []string{"shared", "local", "remote"}
			if got := mine.Recent(0); !slices.Equal(got, want) {
				t.Errorf("Recent() = %v, want %v", got, want)
			}
			e, _ := mine.Get("shared")
			if e.Metadata["from"] != tt.wantFrom {
				t.Errorf("shared from = %q, want %q", e.Metadata["from"], tt.wantFrom)
			}
		})
	}
}

func TestMerge_TrimsToMaxSize(t *testing.T) {
	t.Parallel()

	clock := newStepClock()
	mine := New(2, WithClock(clock.Now))
	mine.Access("a", nil)

	theirs := New(5, WithClock(clock.Now))
	theirs.Access("b", nil)
	theirs.Access("c", nil)

	if err := mine.Merge(theirs, MergeLatest); err != nil {
		t.Fatal(err)
	}
	if got := mine.Recent(0); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("Recent() = %v, want [c b]", got)
	}
}

func TestMerge_UnknownStrategy(t *testing.T) {
	t.Parallel()

	err := New(3).Merge(New(3), "newest")
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Merge() error = %v, want ErrUnknownStrategy", err)
	}

	if _, err := ParseMergeStrategy("bogus"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("ParseMergeStrategy() error = %v", err)
	}
	if s, err := ParseMergeStrategy("keep"); err != nil || s != MergeKeep {
		t.Errorf("ParseMergeStrategy(keep) = %q, %v", s, err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	tr := New(20)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				tr.Access(string(rune('a'+i))+string(rune('a'+j%26)), nil)
				tr.Recent(5)
			}
		}()
	}
	wg.Wait()

	if tr.Len() != 20 {
		t.Errorf("Len() = %d, want 20", tr.Len())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	tr := New(3, WithClock(newStepClock().Now))
	tr.Access("a", map[string]string{"k": "v"})
	tr.Access("b", nil)

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatal(err)
	}

	got := New(3)
	if err := json.Unmarshal(data, got); err != nil {
		t.Fatal(err)
	}
	if ids := got.Recent(0); !slices.Equal(ids, []string{"b", "a"}) {
		t.Errorf("Recent() = %v, want [b a]", ids)
	}
	if e, _ := got.Get("a"); e.Metadata["k"] != "v" {
		t.Errorf("metadata lost: %+v", e)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Parallel()

	tr, err := Load(filepath.Join(t.TempDir(), "missing.json"), 5)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, 5); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoad_TrimsToMaxSize(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.json")
	big := New(10)
	for _, id := range []string{"a", "b", "c", "d"} {
		big.Access(id, nil)
	}
	if err := big.Save(path); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Recent(0); !slices.Equal(got, []string{"d", "c"}) {
		t.Errorf("Recent() = %v, want [d c]", got)
	}
}

func TestLoad_DeduplicatesAndOrders(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.json")
	data := `{"max_size": 10, "entries": [
		{"id": "/a", "last_access": "2025-01-10T00:00:00Z", "metadata": {"branch": "main"}},
		{"id": "/b", "last_access": "2025-03-10T00:00:00Z"},
		{"id": "/a", "last_access": "2025-02-10T00:00:00Z"},
		{"id": "", "last_access": "2025-04-10T00:00:00Z"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Recent(0); !slices.Equal(got, []string{"/b", "/a"}) {
		t.Fatalf("Recent() = %v, want [/b /a]", got)
	}
	if e, _ := tr.Get("/a"); e.Metadata["branch"] != "main" {
		t.Errorf("kept entry for /a = %+v, want the first one", e)
	}

	if !tr.Remove("/a") {
		t.Fatal("Remove(/a) = false")
	}
	if tr.Has("/a") || tr.Position("/a") != -1 {
		t.Errorf("/a still tracked after Remove: %v", tr.Recent(0))
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestRecordAccess(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "history.json")

	for _, id := range []string{"/p/one", "/p/two", "/p/one"} {
		if err := RecordAccess(path, 5, id, nil); err != nil {
			t.Fatalf("RecordAccess(%s) error = %v", id, err)
		}
	}

	tr, err := Load(path, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Recent(0); !slices.Equal(got, []string{"/p/one", "/p/two"}) {
		t.Errorf("Recent() = %v", got)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PRJ_HOME", dir)

	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "history.json"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
