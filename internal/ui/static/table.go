// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as project tables.
package static

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/rank"
	"github.com/raphi011/prj/internal/ui/styles"
)

// Column headers for project tables.
var (
	ProjectHeaders = []string{"NAME", "TYPE", "SESSIONS", "TIME", "LAST USED", "PATH"}
	ScoredHeaders  = []string{"#", "NAME", "SCORE", "WHY", "PATH"}
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// ProjectRow builds one row matching ProjectHeaders.
func ProjectRow(p project.Record, now time.Time) []string {
	return []string{
		p.Name,
		styles.TypeStyle(p.Type).Render(string(p.Type)),
		strconv.Itoa(p.Sessions),
		FormatMinutes(p.Duration),
		FormatAge(p.LastAccessed, now),
		p.Path,
	}
}

// ProjectTable renders records as a table.
func ProjectTable(records []project.Record, now time.Time) string {
	rows := make([][]string, len(records))
	for i, p := range records {
		rows[i] = ProjectRow(p, now)
	}
	return RenderTable(ProjectHeaders, rows)
}

// ScoredRow builds one row matching ScoredHeaders. pos is 1-based.
func ScoredRow(pos int, s rank.Scored) []string {
	return []string{
		strconv.Itoa(pos),
		s.Project.Name,
		styles.AccentStyle.Render(strconv.Itoa(s.Score)),
		strings.Join(s.Reasons, ","),
		s.Project.Path,
	}
}

// ScoredTable renders a ranking as a table.
func ScoredTable(scored []rank.Scored) string {
	rows := make([][]string, len(scored))
	for i, s := range scored {
		rows[i] = ScoredRow(i+1, s)
	}
	return RenderTable(ScoredHeaders, rows)
}

// FormatMinutes renders a minute count as "45m", "3h05m" or "-" for zero.
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

// FormatAge renders how long ago t was, or "never" for the zero time.
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
