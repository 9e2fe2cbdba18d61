// Package filter narrows a set of project records by composable criteria.
//
// Criteria fields are independent and optional; a zero value disables the
// predicate. Active predicates are applied in this order, each narrowing the
// result of the previous one:
//
//  1. project type
//  2. tags (any tag, or all tags with AllTags)
//  3. accessed within a time window
//  4. minimum session count
//  5. minimum cumulative duration
//  6. name pattern
//  7. path pattern
package filter

import (
	"slices"
	"time"

	"github.com/raphi011/prj/internal/project"
)

// Criteria selects records. The zero value matches everything.
type Criteria struct {
	Types          []project.Type
	Tags           []string
	AllTags        bool          // require every tag instead of any
	AccessedWithin time.Duration // LastAccessed must be within this window of Now
	MinSessions    int
	MinDuration    int // minutes
	Name           *Pattern
	Path           *Pattern

	// Now anchors AccessedWithin; zero means time.Now().
	Now time.Time
}

// predicate is one narrowing step
type predicate func(*project.Record) bool

// predicates returns the active predicates in application order.
func (c Criteria) predicates() []predicate {
	var ps []predicate

	if len(c.Types) > 0 {
		ps = append(ps, func(r *project.Record) bool {
			return slices.Contains(c.Types, r.Type)
		})
	}

	if len(c.Tags) > 0 {
		if c.AllTags {
			ps = append(ps, func(r *project.Record) bool {
				for _, t := range c.Tags {
					if !r.HasTag(t) {
						return false
					}
				}
				return true
			})
		} else {
			ps = append(ps, func(r *project.Record) bool {
				return slices.ContainsFunc(c.Tags, r.HasTag)
			})
		}
	}

	if c.AccessedWithin > 0 {
		now := c.Now
		if now.IsZero() {
			now = time.Now()
		}
		cutoff := now.Add(-c.AccessedWithin)
		ps = append(ps, func(r *project.Record) bool {
			return !r.LastAccessed.IsZero() && !r.LastAccessed.Before(cutoff)
		})
	}

	if c.MinSessions > 0 {
		ps = append(ps, func(r *project.Record) bool {
			return r.Sessions >= c.MinSessions
		})
	}

	if c.MinDuration > 0 {
		ps = append(ps, func(r *project.Record) bool {
			return r.Duration >= c.MinDuration
		})
	}

	if c.Name != nil {
		ps = append(ps, func(r *project.Record) bool {
			return c.Name.Match(r.Name)
		})
	}

	if c.Path != nil {
		ps = append(ps, func(r *project.Record) bool {
			return c.Path.Match(r.Path)
		})
	}

	return ps
}

// IsZero reports whether no predicate is active.
func (c Criteria) IsZero() bool {
	return len(c.predicates()) == 0
}

// Apply returns the records satisfying every active predicate, in input
// order. The input slice is not modified. The result is never nil.
func Apply(records []project.Record, c Criteria) []project.Record {
	working := slices.Clone(records)
	if working == nil {
		working = []project.Record{}
	}

	for _, keep := range c.predicates() {
		working = slices.DeleteFunc(working, func(r project.Record) bool {
			return !keep(&r)
		})
		if len(working) == 0 {
			break
		}
	}
	return working
}
