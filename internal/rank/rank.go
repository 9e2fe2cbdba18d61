// Package rank merges several ordered views of the project set into one
// scored list.
//
// Each view contributes points by position: the first entry of the recency
// view earns RecentBase, the next RecentBase-RecentStep, and so on; the
// duration and session views work the same way with their own weights.
// Contributions for the same project ID are summed and the contributing view
// names are kept as reasons.
package rank

import (
	"slices"

	"github.com/raphi011/prj/internal/project"
)

// Positional weights per view.
const (
	RecentBase   = 100
	RecentStep   = 5
	DurationBase = 50
	DurationStep = 3
	SessionsBase = 30
	SessionsStep = 2
)

// Reason names for each view.
const (
	ReasonRecent   = "recent"
	ReasonDuration = "duration"
	ReasonSessions = "sessions"
)

// Scored is a project with its combined score.
type Scored struct {
	Project project.Record `json:"project"`
	Score   int            `json:"score"`
	Reasons []string       `json:"reasons"`
}

// HasReason reports whether view contributed to the score.
func (s *Scored) HasReason(reason string) bool {
	return slices.Contains(s.Reasons, reason)
}

// Views supplies the three ordered inputs, most significant first.
type Views interface {
	Recent(n int) []project.Record
	TopByDuration(n int) []project.Record
	TopBySessions(n int) []project.Record
}

// Rank scores the union of the three views and returns at most limit
// entries ordered by score. Ties keep the order in which projects were first
// seen (recent, then duration, then sessions). limit <= 0 returns everything.
func Rank(recent, byDuration, bySessions []project.Record, limit int) []Scored {
	var scored []*Scored
	index := make(map[string]*Scored)

	add := func(view []project.Record, base, step int, reason string) {
		for k, rec := range view {
			s, ok := index[rec.ID]
			if !ok {
				s = &Scored{Project: rec}
				index[rec.ID] = s
				scored = append(scored, s)
			}
			s.Score += base - step*k
			if !s.HasReason(reason) {
				s.Reasons = append(s.Reasons, reason)
			}
		}
	}

	add(recent, RecentBase, RecentStep, ReasonRecent)
	add(byDuration, DurationBase, DurationStep, ReasonDuration)
	add(bySessions, SessionsBase, SessionsStep, ReasonSessions)

	slices.SortStableFunc(scored, func(a, b *Scored) int {
		return b.Score - a.Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]Scored, len(scored))
	for i, s := range scored {
		out[i] = *s
	}
	return out
}

// FromViews pulls depth entries from each view and ranks them.
func FromViews(v Views, depth, limit int) []Scored {
	return Rank(v.Recent(depth), v.TopByDuration(depth), v.TopBySessions(depth), limit)
}
