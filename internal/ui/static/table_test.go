package static

import (
	"strings"
	"testing"
	"time"

	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/rank"
)

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"A"}, nil); got != "" {
		t.Errorf("RenderTable() with no rows = %q, want empty", got)
	}
}

func TestProjectRow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	p := project.NewRecord("/code/api", project.TypeGo, now)
	p.Sessions = 4
	p.Duration = 125
	p.LastAccessed = now.Add(-3 * time.Hour)

	row := ProjectRow(p, now)

	if len(row) != len(ProjectHeaders) {
		t.Fatalf("expected %d columns, got %d", len(ProjectHeaders), len(row))
	}
	if row[0] != "api" {
		t.Errorf("NAME = %q, want api", row[0])
	}
	if !strings.Contains(row[1], "go") {
		t.Errorf("TYPE = %q, want to contain go", row[1])
	}
	if row[2] != "4" || row[3] != "2h05m" || row[4] != "3h ago" || row[5] != "/code/api" {
		t.Errorf("row = %q", row)
	}
}

func TestProjectTable(t *testing.T) {
	t.Parallel()

	now := time.Now()
	out := ProjectTable([]project.Record{
		project.NewRecord("/a/alpha", project.TypeRust, now),
		project.NewRecord("/a/beta", project.TypeGeneric, now),
	}, now)

	for _, want := range []string{"NAME", "alpha", "beta", "never"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestScoredTable(t *testing.T) {
	t.Parallel()

	out := ScoredTable([]rank.Scored{{
		Project: project.NewRecord("/x/web", project.TypeNode, time.Now()),
		Score:   177,
		Reasons: []string{"recent", "duration"},
	}})

	for _, want := range []string{"SCORE", "web", "177", "recent,duration"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "-"},
		{45, "45m"},
		{60, "1h00m"},
		{185, "3h05m"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{26 * time.Hour, "1d ago"},
	}
	for _, tt := range tests {
		if got := FormatAge(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("FormatAge(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if got := FormatAge(time.Time{}, now); got != "never" {
		t.Errorf("FormatAge(zero) = %q, want never", got)
	}
}
