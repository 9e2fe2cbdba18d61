package scanner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/prj/internal/cache"
	"github.com/raphi011/prj/internal/log"
	"github.com/raphi011/prj/internal/project"
)

// Lister enumerates the immediate subdirectory names of a path.
type Lister interface {
	List(path string) ([]string, error)
}

// OSLister lists directories on the local filesystem.
// Symlinks are followed; broken links are skipped.
type OSLister struct{}

// List returns the names of the subdirectories of path.
func (OSLister) List(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
			continue
		}
		if e.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(path, e.Name())); err == nil && info.IsDir() {
				names = append(names, e.Name())
			}
		}
	}
	return names, nil
}

// ScanError reports a root directory that could not be read.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Discovery is a progress event for one classified project.
type Discovery struct {
	Root    string
	Project project.Record
}

// Options controls a single scan.
type Options struct {
	UseCache     bool
	ForceRefresh bool
	Progress     chan<- Discovery
}

// Scanner walks root directories and classifies their children.
type Scanner struct {
	cache       *cache.Cache
	lister      Lister
	detector    *project.Detector
	timeout     time.Duration
	concurrency int
	now         func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLister replaces the filesystem lister.
func WithLister(l Lister) Option {
	return func(s *Scanner) { s.lister = l }
}

// WithDetector replaces the project detector.
func WithDetector(d *project.Detector) Option {
	return func(s *Scanner) { s.detector = d }
}

// WithTimeout sets the per-directory classification deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.timeout = d }
}

// WithConcurrency bounds concurrent classifications per root.
// Zero or less starts one task per subdirectory.
func WithConcurrency(n int) Option {
	return func(s *Scanner) { s.concurrency = n }
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// New creates a scanner. c may be nil, which disables caching regardless of
// Options.UseCache.
func New(c *cache.Cache, opts ...Option) *Scanner {
	s := &Scanner{
		cache:   c,
		lister:  OSLister{},
		timeout: project.DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.detector == nil {
		s.detector = project.NewDetector(nil)
	}
	if s.timeout <= 0 {
		s.timeout = project.DefaultTimeout
	}
	return s
}

// ScanOne returns the projects directly below root.
// The context is checked before each classification is started; running
// classifications finish or hit their own deadline.
func (s *Scanner) ScanOne(ctx context.Context, root string, opts Options) ([]project.Record, error) {
	l := log.FromContext(ctx)
	useCache := opts.UseCache && s.cache != nil

	if useCache && !opts.ForceRefresh {
		if cached, ok := s.cache.Get(root); ok {
			l.Debug("scan cache hit", "root", root, "projects", len(cached))
			return cached, nil
		}
	}

	names, err := s.lister.List(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	var (
		mu    sync.Mutex
		found = make([]project.Record, 0, len(names))
	)

	g := new(errgroup.Group)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		dir := filepath.Join(root, name)
		g.Go(func() error {
			start := time.Now()
			t, ok := s.detector.Classify(dir, s.timeout)
			if !ok {
				if time.Since(start) >= s.timeout {
					l.Debug("classification timed out", "dir", dir, "timeout", s.timeout)
				}
				return nil
			}

			rec := project.NewRecord(dir, t, s.now())
			mu.Lock()
			found = append(found, rec)
			mu.Unlock()

			if opts.Progress != nil {
				select {
				case opts.Progress <- Discovery{Root: root, Project: rec}:
				case <-ctx.Done():
				}
			}
			return nil
		})
	}

	// Tasks never return errors; this is the join barrier
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if useCache {
		s.cache.Set(root, found)
	}

	l.Debug("scanned root", "root", root, "dirs", len(names), "projects", len(found))
	return found, nil
}

// ScanMany scans every distinct root concurrently. The result has exactly one
// key per distinct root; roots that failed map to an empty slice and are
// reported in the returned errors, in input order.
func (s *Scanner) ScanMany(ctx context.Context, roots []string, opts Options) (map[string][]project.Record, []*ScanError) {
	unique := make([]string, 0, len(roots))
	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}

	type rootResult struct {
		records []project.Record
		err     *ScanError
	}
	results := make([]rootResult, len(unique))

	g := new(errgroup.Group)
	for i, root := range unique {
		g.Go(func() error {
			recs, err := s.ScanOne(ctx, root, opts)
			if err != nil {
				results[i].err = asScanError(root, err)
				return nil // one root never fails the batch
			}
			results[i].records = recs
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]project.Record, len(unique))
	var errs []*ScanError
	for i, root := range unique {
		recs := results[i].records
		if recs == nil {
			recs = []project.Record{}
		}
		out[root] = recs
		if results[i].err != nil {
			errs = append(errs, results[i].err)
		}
	}
	return out, errs
}

func asScanError(root string, err error) *ScanError {
	var se *ScanError
	if errors.As(err, &se) {
		return se
	}
	return &ScanError{Root: root, Err: err}
}

// SortByName orders records by name, then path.
func SortByName(records []project.Record) {
	slices.SortFunc(records, func(a, b project.Record) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Path, b.Path))
	})
}

// Flatten merges a ScanMany result into one slice ordered by name.
func Flatten(results map[string][]project.Record) []project.Record {
	var all []project.Record
	for _, recs := range results {
		all = append(all, recs...)
	}
	SortByName(all)
	return all
}
