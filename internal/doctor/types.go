package doctor

import "github.com/raphi011/prj/internal/project"

// IssueCategory groups issues by the file they were found in.
type IssueCategory string

const (
	// CategoryRegistry represents problems with registered projects.
	CategoryRegistry IssueCategory = "registry"
	// CategoryHistory represents problems with recent-list entries.
	CategoryHistory IssueCategory = "history"
)

// FixAction names the repair --fix would apply.
type FixAction string

const (
	FixNone     FixAction = ""         // manual decision required
	FixRemove   FixAction = "remove"   // drop the project from the registry
	FixReset    FixAction = "reset"    // clamp negative counters to zero
	FixRetype   FixAction = "retype"   // store the currently detected type
	FixForget   FixAction = "forget"   // drop the history entry
	FixRegister FixAction = "register" // add the history entry's directory to the registry
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // project id, history id, or name for duplicates
	Description string        // human-readable description
	FixAction   FixAction     // what --fix would do
	Category    IssueCategory // issue category
	Detected    project.Type  // for FixRetype and FixRegister
}

// Fixable reports whether --fix can repair the issue.
func (i Issue) Fixable() bool {
	return i.FixAction != FixNone
}

// IssueStats tracks counts by category.
type IssueStats struct {
	Projects      int // registered projects checked
	ProjectIssues int // registry issues
	Entries       int // history entries checked
	EntryIssues   int // history issues
	Manual        int // issues --fix leaves alone
}

// FixResult is the outcome of one repair.
type FixResult struct {
	Issue Issue
	Err   error
}

// Report is the outcome of a doctor run.
type Report struct {
	Issues  []Issue
	Stats   IssueStats
	Results []FixResult // empty unless fixes were applied
}

// Fixed returns the number of successful repairs.
func (r *Report) Fixed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of repairs that returned an error.
func (r *Report) Failed() int {
	return len(r.Results) - r.Fixed()
}
