package doctor

import (
	"fmt"
	"time"

	"github.com/raphi011/prj/internal/history"
	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/registry"
)

// Fix applies every fixable issue to reg and t and reports each attempt.
// The caller persists both afterwards.
func Fix(reg *registry.Registry, t *history.Tracker, issues []Issue, now time.Time) []FixResult {
	var results []FixResult
	for _, issue := range issues {
		var err error
		switch issue.FixAction {
		case FixNone:
			continue
		case FixRemove:
			err = reg.Remove(issue.Key)
		case FixReset:
			err = update(reg, issue.Key, func(p *project.Record) {
				p.Sessions = max(p.Sessions, 0)
				p.Duration = max(p.Duration, 0)
			})
		case FixRetype:
			err = update(reg, issue.Key, func(p *project.Record) {
				p.Type = issue.Detected
			})
		case FixForget:
			if !t.Remove(issue.Key) {
				err = fmt.Errorf("not in history: %s", issue.Key)
			}
		case FixRegister:
			_, err = reg.Upsert(project.NewRecord(issue.Key, issue.Detected, now))
		default:
			err = fmt.Errorf("unknown fix action %q", issue.FixAction)
		}
		results = append(results, FixResult{Issue: issue, Err: err})
	}
	return results
}

// update edits the stored record with the given id in place.
func update(reg *registry.Registry, id string, fn func(*project.Record)) error {
	for i := range reg.Projects {
		if reg.Projects[i].ID == id {
			fn(&reg.Projects[i])
			return nil
		}
	}
	return fmt.Errorf("project not found: %s", id)
}
