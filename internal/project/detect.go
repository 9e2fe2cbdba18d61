package project

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultTimeout bounds a single directory classification.
const DefaultTimeout = 5 * time.Second

// Marker maps a file or directory name to the project type it indicates.
type Marker struct {
	Name string
	Type Type
}

// DefaultMarkers is checked in order; the first marker present wins.
var DefaultMarkers = []Marker{
	{"CLAUDE.md", TypeClaude},
	{".claude", TypeClaude},
	{"package.json", TypeNode},
	{"go.mod", TypeGo},
	{"Cargo.toml", TypeRust},
	{"pyproject.toml", TypePython},
	{"setup.py", TypePython},
	{"requirements.txt", TypePython},
	{"pom.xml", TypeJava},
	{"build.gradle", TypeJava},
	{"build.gradle.kts", TypeJava},
	{"mkdocs.yml", TypeDocs},
	{"docusaurus.config.js", TypeDocs},
	{"book.toml", TypeDocs},
	{".git", TypeGeneric},
}

// Prober tests whether a marker path exists.
type Prober interface {
	Exists(path string) (bool, error)
}

// OSProber probes the local filesystem.
type OSProber struct{}

// Exists reports whether path exists. A missing path is not an error.
func (OSProber) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Detector classifies directories by marker files. It holds no mutable
// state and is safe for concurrent use.
type Detector struct {
	prober  Prober
	markers []Marker
}

// NewDetector creates a detector using DefaultMarkers.
// A nil prober falls back to OSProber.
func NewDetector(p Prober) *Detector {
	return NewDetectorWithMarkers(p, DefaultMarkers)
}

// NewDetectorWithMarkers creates a detector with a custom ordered marker list.
func NewDetectorWithMarkers(p Prober, markers []Marker) *Detector {
	if p == nil {
		p = OSProber{}
	}
	return &Detector{prober: p, markers: markers}
}

// Detect walks the marker list and returns the type of the first marker
// found in dir. Probe errors are treated as "marker absent".
func (d *Detector) Detect(dir string) (Type, bool) {
	for _, m := range d.markers {
		ok, err := d.prober.Exists(filepath.Join(dir, m.Name))
		if err != nil || !ok {
			continue
		}
		return m.Type, true
	}
	return "", false
}

// Classify runs Detect but gives up after deadline, returning no
// classification. The abandoned detection keeps running in the background
// and its result is dropped. A non-positive deadline means DefaultTimeout.
func (d *Detector) Classify(dir string, deadline time.Duration) (Type, bool) {
	if deadline <= 0 {
		deadline = DefaultTimeout
	}

	type result struct {
		t  Type
		ok bool
	}

	// Buffered so a late detection can finish without a reader
	done := make(chan result, 1)
	go func() {
		t, ok := d.Detect(dir)
		done <- result{t, ok}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.t, r.ok
	case <-timer.C:
		return "", false
	}
}
