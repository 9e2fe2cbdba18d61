package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/raphi011/prj/internal/history"
	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/registry"
)

// Options configures a doctor run.
type Options struct {
	RegistryPath string
	HistoryPath  string
	HistorySize  int
	Fix          bool

	// Detector classifies directories; nil uses the default markers.
	Detector *project.Detector
	// Now stamps records added by FixRegister; nil uses time.Now.
	Now func() time.Time
}

// Run checks the registry and the history and, with opts.Fix, repairs them.
func Run(ctx context.Context, opts Options) (*Report, error) {
	det := opts.Detector
	if det == nil {
		det = project.NewDetector(nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if !opts.Fix {
		reg, err := registry.Load(opts.RegistryPath)
		if err != nil {
			return nil, fmt.Errorf("load registry: %w", err)
		}
		t, err := history.Load(opts.HistoryPath, opts.HistorySize)
		if err != nil {
			return nil, err
		}
		return diagnose(ctx, reg, t, det)
	}

	var report *Report
	err := registry.Update(opts.RegistryPath, func(reg *registry.Registry) error {
		return history.Update(opts.HistoryPath, opts.HistorySize, func(t *history.Tracker) error {
			r, err := diagnose(ctx, reg, t, det)
			if err != nil {
				return err
			}
			r.Results = Fix(reg, t, r.Issues, now())
			report = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func diagnose(ctx context.Context, reg *registry.Registry, t *history.Tracker, det *project.Detector) (*Report, error) {
	issues, err := Check(ctx, reg, t, det)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Issues: issues,
		Stats: IssueStats{
			Projects: len(reg.Projects),
			Entries:  t.Len(),
		},
	}
	for _, issue := range issues {
		switch issue.Category {
		case CategoryRegistry:
			r.Stats.ProjectIssues++
		case CategoryHistory:
			r.Stats.EntryIssues++
		}
		if !issue.Fixable() {
			r.Stats.Manual++
		}
	}
	return r, nil
}
