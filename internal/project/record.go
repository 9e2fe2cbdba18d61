package project

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Type classifies a project directory.
type Type string

const (
	TypeClaude  Type = "claude"
	TypeNode    Type = "node"
	TypeGo      Type = "go"
	TypeRust    Type = "rust"
	TypePython  Type = "python"
	TypeJava    Type = "java"
	TypeDocs    Type = "docs"
	TypeGeneric Type = "generic"
)

// Types lists every valid Type in display order.
var Types = []Type{TypeClaude, TypeNode, TypeGo, TypeRust, TypePython, TypeJava, TypeDocs, TypeGeneric}

// ParseType converts a user supplied name into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Types, t) {
		return t, nil
	}
	names := make([]string, len(Types))
	for i, v := range Types {
		names[i] = string(v)
	}
	return "", fmt.Errorf("unknown project type %q (valid: %s)", s, strings.Join(names, ", "))
}

// ErrEmptyID is returned by Validate for records without an identifier.
var ErrEmptyID = errors.New("project id must not be empty")

// Record is one discovered or registered project.
type Record struct {
	ID           string            `json:"id"`   // normally the absolute path
	Name         string            `json:"name"` // display name
	Type         Type              `json:"type"`
	Path         string            `json:"path"`
	Description  string            `json:"description,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	LastAccessed time.Time         `json:"last_accessed,omitzero"`
	Sessions     int               `json:"sessions"`
	Duration     int               `json:"duration"` // cumulative minutes
}

// NewRecord creates a record for a discovered directory.
func NewRecord(path string, t Type, now time.Time) Record {
	return Record{
		ID:        path,
		Name:      filepath.Base(path),
		Type:      t,
		Path:      path,
		CreatedAt: now,
	}
}

// Validate checks the record invariants.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if r.Sessions < 0 || r.Duration < 0 {
		return fmt.Errorf("project %s: counters must not be negative", r.ID)
	}
	return nil
}

// HasTag reports whether the record carries the given tag.
func (r *Record) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// AddTag adds a tag, keeping Tags sorted and free of duplicates.
func (r *Record) AddTag(tag string) {
	if tag == "" || r.HasTag(tag) {
		return
	}
	r.Tags = append(r.Tags, tag)
	slices.Sort(r.Tags)
}

// Clone returns a deep copy so cached slices never alias caller data.
func (r Record) Clone() Record {
	r.Tags = slices.Clone(r.Tags)
	r.Metadata = maps.Clone(r.Metadata)
	return r
}

// CloneAll deep-copies a slice of records. A nil input yields nil.
func CloneAll(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// String returns a display string for the record
func (r *Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Type)
}
