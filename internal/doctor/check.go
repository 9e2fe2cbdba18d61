package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/raphi011/prj/internal/history"
	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/registry"
)

// Check inspects reg and t without modifying them.
func Check(ctx context.Context, reg *registry.Registry, t *history.Tracker, det *project.Detector) ([]Issue, error) {
	issues, err := checkRegistry(ctx, reg, det)
	if err != nil {
		return nil, err
	}
	return append(issues, checkHistory(reg, t, det)...), nil
}

// checkRegistry finds problems in the registered projects.
func checkRegistry(ctx context.Context, reg *registry.Registry, det *project.Detector) ([]Issue, error) {
	var issues []Issue
	add := func(key, desc string, fix FixAction, detected project.Type) {
		issues = append(issues, Issue{
			Key:         key,
			Description: desc,
			FixAction:   fix,
			Category:    CategoryRegistry,
			Detected:    detected,
		})
	}

	names := make(map[string]int)
	for i := range reg.Projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &reg.Projects[i]
		names[p.Name]++

		if err := p.Validate(); err != nil {
			if errors.Is(err, project.ErrEmptyID) {
				add(p.ID, err.Error(), FixRemove, "")
				continue
			}
			add(p.ID, err.Error(), FixReset, "")
		}

		info, err := os.Stat(p.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			add(p.ID, fmt.Sprintf("path no longer exists: %s", p.Path), FixRemove, "")
			continue
		case err != nil:
			add(p.ID, err.Error(), FixNone, "")
			continue
		case !info.IsDir():
			add(p.ID, fmt.Sprintf("not a directory: %s", p.Path), FixRemove, "")
			continue
		}

		if detected := classify(det, p.Path); detected != p.Type {
			add(p.ID, fmt.Sprintf("type changed: %s -> %s", p.Type, detected), FixRetype, detected)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(names)) {
		if n := names[name]; n > 1 {
			add(name, fmt.Sprintf("name shared by %d projects, refer to them by path", n), FixNone, "")
		}
	}
	return issues, nil
}

// checkHistory finds recent entries that no longer lead anywhere.
func checkHistory(reg *registry.Registry, t *history.Tracker, det *project.Detector) []Issue {
	known := make(map[string]bool, len(reg.Projects))
	for _, p := range reg.Projects {
		known[p.ID] = true
	}

	var issues []Issue
	for _, id := range t.Recent(0) {
		issue := Issue{Key: id, Category: CategoryHistory}
		switch {
		case !filepath.IsAbs(id):
			if known[id] {
				continue
			}
			issue.Description = "not a registered project"
			issue.FixAction = FixForget
		case !dirExists(id):
			issue.Description = "directory no longer exists"
			issue.FixAction = FixForget
		case !known[id]:
			issue.Description = "directory is not registered"
			issue.FixAction = FixRegister
			issue.Detected = classify(det, id)
		default:
			continue
		}
		issues = append(issues, issue)
	}
	return issues
}

func classify(det *project.Detector, dir string) project.Type {
	if t, ok := det.Detect(dir); ok {
		return t
	}
	return project.TypeGeneric
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
