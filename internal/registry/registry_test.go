package registry

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/rank"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func rec(id string, sessions, duration int, accessed time.Time) project.Record {
	r := project.NewRecord(id, project.TypeGo, t0)
	r.Sessions = sessions
	r.Duration = duration
	r.LastAccessed = accessed
	return r
}

func ids(rs []project.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestUpsert(t *testing.T) {
	t.Parallel()

	reg := &Registry{}

	isNew, err := reg.Upsert(project.NewRecord("/code/api", project.TypeGeneric, t0))
	if err != nil || !isNew {
		t.Fatalf("Upsert() = %v, %v; want true, nil", isNew, err)
	}
	if _, err := reg.Touch("/code/api", 30, t0); err != nil {
		t.Fatal(err)
	}
	if err := reg.AddTag("/code/api", "work"); err != nil {
		t.Fatal(err)
	}

	isNew, err = reg.Upsert(project.NewRecord("/code/api", project.TypeGo, t0.Add(time.Hour)))
	if err != nil || isNew {
		t.Fatalf("second Upsert() = %v, %v; want false, nil", isNew, err)
	}

	p, err := reg.Find("/code/api")
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != project.TypeGo {
		t.Errorf("Type = %q, want refreshed to go", p.Type)
	}
	if p.Sessions != 1 || p.Duration != 30 {
		t.Errorf("counters reset: sessions=%d duration=%d", p.Sessions, p.Duration)
	}
	if !p.HasTag("work") {
		t.Error("tags lost on upsert")
	}
	if !p.CreatedAt.Equal(t0) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, t0)
	}
}

func TestUpsert_RejectsEmptyID(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	if _, err := reg.Upsert(project.Record{}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	reg := &Registry{Projects: []project.Record{
		rec("/a/api", 0, 0, time.Time{}),
		rec("/b/api", 0, 0, time.Time{}),
		rec("/a/web", 0, 0, time.Time{}),
	}}

	tests := []struct {
		ref     string
		want    string
		wantErr string
	}{
		{ref: "/a/web", want: "/a/web"},
		{ref: "web", want: "/a/web"},
		{ref: "api", wantErr: "ambiguous"},
		{ref: "missing", wantErr: "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, err := reg.Find(tt.ref)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Find(%q) error = %v, want %q", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find(%q) error = %v", tt.ref, err)
			}
			if p.ID != tt.want {
				t.Errorf("Find(%q) = %s, want %s", tt.ref, p.ID, tt.want)
			}
		})
	}
}

func TestTouchAndRemove(t *testing.T) {
	t.Parallel()

	reg := &Registry{Projects: []project.Record{rec("/p", 0, 0, time.Time{})}}

	for range 2 {
		if _, err := reg.Touch("/p", 15, t0); err != nil {
			t.Fatal(err)
		}
	}
	p, _ := reg.Find("/p")
	if p.Sessions != 2 || p.Duration != 30 || !p.LastAccessed.Equal(t0) {
		t.Errorf("after touch: %+v", p)
	}

	if _, err := reg.Touch("/p", -1, t0); err == nil {
		t.Error("expected error for negative minutes")
	}
	if _, err := reg.Touch("/nope", 1, t0); err == nil {
		t.Error("expected error for unknown project")
	}

	if err := reg.Remove("/p"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Remove("/p"); err == nil {
		t.Error("expected error removing twice")
	}
}

func TestTags(t *testing.T) {
	t.Parallel()

	reg := &Registry{Projects: []project.Record{rec("/a", 0, 0, time.Time{}), rec("/b", 0, 0, time.Time{})}}
	_ = reg.AddTag("/a", "work")
	_ = reg.AddTag("/a", "go")
	_ = reg.AddTag("/b", "work")

	if got := reg.AllTags(); !slices.Equal(got, []string{"go", "work"}) {
		t.Errorf("AllTags() = %v", got)
	}
	_ = reg.RemoveTag("/a", "work")
	if p, _ := reg.Find("/a"); !slices.Equal(p.Tags, []string{"go"}) {
		t.Errorf("Tags = %v, want [go]", p.Tags)
	}
}

func TestViews(t *testing.T) {
	t.Parallel()

	reg := &Registry{Projects: []project.Record{
		rec("/old", 9, 10, t0),
		rec("/new", 1, 300, t0.Add(2*time.Hour)),
		rec("/mid", 4, 0, t0.Add(time.Hour)),
		rec("/never", 0, 0, time.Time{}),
	}}

	if got := ids(reg.Recent(0)); !slices.Equal(got, []string{"/new", "/mid", "/old"}) {
		t.Errorf("Recent() = %v", got)
	}
	if got := ids(reg.TopByDuration(0)); !slices.Equal(got, []string{"/new", "/old"}) {
		t.Errorf("TopByDuration() = %v", got)
	}
	if got := ids(reg.TopBySessions(2)); !slices.Equal(got, []string{"/old", "/mid"}) {
		t.Errorf("TopBySessions(2) = %v", got)
	}

	// Registry feeds the ranking engine directly.
	var _ rank.Views = reg
	scored := rank.FromViews(reg, 10, 1)
	if len(scored) != 1 || scored[0].Project.ID != "/new" {
		t.Errorf("FromViews() top = %+v", scored)
	}
}

func TestRecords_ReturnsCopies(t *testing.T) {
	t.Parallel()

	reg := &Registry{Projects: []project.Record{rec("/a", 0, 0, time.Time{})}}
	got := reg.Records()
	got[0].Tags = append(got[0].Tags, "x")
	got[0].Sessions = 99

	if p, _ := reg.Find("/a"); p.Sessions != 0 || len(p.Tags) != 0 {
		t.Errorf("Records() aliased registry data: %+v", p)
	}
	if got := (&Registry{}).Records(); got == nil {
		t.Error("Records() on empty registry should be non-nil")
	}
}

func TestLoadSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "projects.json")

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() missing file error = %v", err)
	}
	if len(reg.Projects) != 0 {
		t.Fatalf("expected empty registry, got %d", len(reg.Projects))
	}

	_, _ = reg.Upsert(rec("/x", 3, 45, t0))
	if err := reg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	p, err := loaded.Find("/x")
	if err != nil {
		t.Fatal(err)
	}
	if p.Sessions != 3 || p.Duration != 45 || !p.LastAccessed.Equal(t0) {
		t.Errorf("round-trip mismatch: %+v", p)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "projects.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "projects.json")

	err := Update(path, func(r *Registry) error {
		_, err := r.Upsert(rec("/u", 0, 0, time.Time{}))
		return err
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	err = Update(path, func(r *Registry) error {
		_, err := r.Touch("/u", 5, t0)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	reg, _ := Load(path)
	if p, err := reg.Find("/u"); err != nil || p.Sessions != 1 {
		t.Errorf("after Update: %+v, %v", p, err)
	}
}
