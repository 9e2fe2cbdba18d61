// Package registry manages the project registry at ~/.prj/projects.json.
//
// The registry is the persisted side of discovery: scans upsert the records
// they find, `prj touch` bumps session counters, and the ranking engine reads
// its three ordered views (recency, duration, sessions) from here.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/storage"
)

const fileName = "projects.json"

// Registry holds all known projects.
type Registry struct {
	Projects []project.Record `json:"projects"`
}

// DefaultPath returns ~/.prj/projects.json (or $PRJ_HOME/projects.json).
func DefaultPath() (string, error) {
	return storage.StateFile(fileName)
}

// Load reads the registry from path.
// Returns an empty registry if the file doesn't exist.
func Load(path string) (*Registry, error) {
	var reg Registry
	if err := storage.LoadJSON(path, &reg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Registry{Projects: []project.Record{}}, nil
		}
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if reg.Projects == nil {
		reg.Projects = []project.Record{}
	}
	return &reg, nil
}

// Save writes the registry to path atomically.
func (r *Registry) Save(path string) error {
	if err := storage.SaveJSON(path, r); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// Update loads the registry, applies fn and saves it under the file lock.
func Update(path string, fn func(*Registry) error) error {
	return storage.WithLock(path, func() error {
		reg, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		return reg.Save(path)
	})
}

func (r *Registry) index(id string) int {
	return slices.IndexFunc(r.Projects, func(p project.Record) bool { return p.ID == id })
}

// Upsert adds rec or refreshes the scan-derived fields of an existing entry.
// Counters, tags, metadata and timestamps of existing entries are kept.
// Returns true if rec was new.
func (r *Registry) Upsert(rec project.Record) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}

	i := r.index(rec.ID)
	if i < 0 {
		r.Projects = append(r.Projects, rec.Clone())
		return true, nil
	}

	existing := &r.Projects[i]
	existing.Type = rec.Type
	existing.Path = rec.Path
	if existing.Name == "" {
		existing.Name = rec.Name
	}
	if existing.Description == "" {
		existing.Description = rec.Description
	}
	return false, nil
}

// Find looks up a project by ID, path or name.
func (r *Registry) Find(ref string) (*project.Record, error) {
	for i := range r.Projects {
		p := &r.Projects[i]
		if p.ID == ref || p.Path == ref {
			return p, nil
		}
	}

	if abs, err := filepath.Abs(ref); err == nil {
		if i := r.index(abs); i >= 0 {
			return &r.Projects[i], nil
		}
	}

	var matches []*project.Record
	for i := range r.Projects {
		if r.Projects[i].Name == ref {
			matches = append(matches, &r.Projects[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		return nil, fmt.Errorf("project name %q is ambiguous: %s", ref, strings.Join(paths, ", "))
	}
}

// Remove deletes a project by ID.
func (r *Registry) Remove(id string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	r.Projects = slices.Delete(r.Projects, i, i+1)
	return nil
}

// Touch records a session of the given length on project id.
func (r *Registry) Touch(id string, minutes int, now time.Time) (*project.Record, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("session length must not be negative: %d", minutes)
	}
	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	p := &r.Projects[i]
	p.Sessions++
	p.Duration += minutes
	p.LastAccessed = now
	return p, nil
}

// Records returns a deep copy of every project.
func (r *Registry) Records() []project.Record {
	out := project.CloneAll(r.Projects)
	if out == nil {
		out = []project.Record{}
	}
	return out
}

// AllTags returns all unique tags across all projects.
func (r *Registry) AllTags() []string {
	var tags []string
	for _, p := range r.Projects {
		for _, t := range p.Tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

// AddTag adds a tag to a project.
func (r *Registry) AddTag(id, tag string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	r.Projects[i].AddTag(tag)
	return nil
}

// RemoveTag removes a tag from a project.
func (r *Registry) RemoveTag(id, tag string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	p := &r.Projects[i]
	p.Tags = slices.DeleteFunc(p.Tags, func(t string) bool { return t == tag })
	return nil
}

// top returns up to n copies ordered by cmp, ties broken by name.
// Projects for which keep returns false are skipped.
func (r *Registry) top(n int, keep func(*project.Record) bool, cmp func(a, b *project.Record) int) []project.Record {
	var out []project.Record
	for i := range r.Projects {
		if keep(&r.Projects[i]) {
			out = append(out, r.Projects[i].Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b project.Record) int {
		if c := cmp(&a, &b); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Recent returns the n most recently accessed projects.
// Projects never accessed are excluded.
func (r *Registry) Recent(n int) []project.Record {
	return r.top(n,
		func(p *project.Record) bool { return !p.LastAccessed.IsZero() },
		func(a, b *project.Record) int { return b.LastAccessed.Compare(a.LastAccessed) })
}

// TopByDuration returns the n projects with the largest cumulative duration.
func (r *Registry) TopByDuration(n int) []project.Record {
	return r.top(n,
		func(p *project.Record) bool { return p.Duration > 0 },
		func(a, b *project.Record) int { return b.Duration - a.Duration })
}

// TopBySessions returns the n projects with the most sessions.
func (r *Registry) TopBySessions(n int) []project.Record {
	return r.top(n,
		func(p *project.Record) bool { return p.Sessions > 0 },
		func(a, b *project.Record) int { return b.Sessions - a.Sessions })
}
