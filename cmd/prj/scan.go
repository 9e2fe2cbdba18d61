package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/raphi011/prj/internal/cache"
	"github.com/raphi011/prj/internal/config"
	"github.com/raphi011/prj/internal/log"
	"github.com/raphi011/prj/internal/output"
	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/registry"
	"github.com/raphi011/prj/internal/scanner"
	"github.com/raphi011/prj/internal/ui/progress"
	"github.com/raphi011/prj/internal/ui/static"
)

// scanResult is the outcome of one pass over all roots.
type scanResult struct {
	Projects []project.Record `json:"projects"` // registry view of every discovered project
	Added    []project.Record `json:"-"`        // projects new to the registry
	Roots    int              `json:"-"`
	Failed   int              `json:"-"`
}

func runScan(ctx context.Context, opts scanOptions) error {
	cfg, err := configFrom(ctx)
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	roots := opts.roots
	if len(roots) == 0 {
		roots = cfg.Roots
	}
	if len(roots) == 0 {
		return errors.New("no scan roots: pass directories or set roots in the config file (or PRJ_ROOTS)")
	}
	if opts.refresh && opts.watch <= 0 {
		return errors.New("--refresh only applies to rescans, use it with --watch")
	}
	roots, err = absPaths(roots)
	if err != nil {
		return err
	}

	s, c := newScanner(cfg)
	scanOpts := scanner.Options{UseCache: cfg.Scan.UseCache && !opts.noCache}

	res, err := scanRoots(ctx, s, roots, scanOpts)
	if err != nil {
		return err
	}
	logCacheStats(ctx, c)

	if opts.json {
		return out.PrintJSON(res)
	}

	out.Print(static.ProjectTable(res.Projects, now()))
	l.Printf("Found %d projects in %d roots (%d new)\n", len(res.Projects), res.Roots-res.Failed, len(res.Added))

	if opts.watch > 0 {
		scanOpts.ForceRefresh = opts.refresh
		return watchScan(ctx, s, c, roots, scanOpts, opts.watch)
	}
	return nil
}

func newScanner(cfg *config.Config) (*scanner.Scanner, *cache.Cache) {
	c := cache.New(cache.WithTTL(cfg.Scan.CacheTTL), cache.WithMaxSize(cfg.Scan.CacheSize))
	s := scanner.New(c,
		scanner.WithTimeout(cfg.Scan.DetectTimeout),
		scanner.WithConcurrency(cfg.Scan.Concurrency),
	)
	return s, c
}

// scanRoots scans all roots, reports progress on stderr and records the
// discoveries in the registry.
func scanRoots(ctx context.Context, s *scanner.Scanner, roots []string, opts scanner.Options) (scanResult, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return scanResult{}, err
	}
	l := log.FromContext(ctx)

	events := make(chan scanner.Discovery, 16)
	sp := progress.NewSpinner("scanning...", os.Stderr)
	sp.Start()
	counted := make(chan int, 1)
	go func() { counted <- progress.Discoveries(events, sp) }()

	opts.Progress = events
	results, errs := s.ScanMany(ctx, roots, opts)
	// ScanMany has joined every task, so nothing sends after this
	close(events)
	n := <-counted
	sp.Stop()

	if err := ctx.Err(); err != nil {
		return scanResult{}, err
	}

	for _, se := range errs {
		l.Printf("%v\n", se)
	}
	if len(errs) == len(results) {
		return scanResult{}, fmt.Errorf("none of the %d roots could be scanned", len(results))
	}

	found := scanner.Flatten(results)
	l.Debug("scan finished", "roots", len(results), "projects", len(found), "events", n)

	path, err := cfg.RegistryPath()
	if err != nil {
		return scanResult{}, err
	}

	res := scanResult{Roots: len(results), Failed: len(errs)}
	err = registry.Update(path, func(reg *registry.Registry) error {
		for _, rec := range found {
			isNew, err := reg.Upsert(rec)
			if err != nil {
				return err
			}
			if isNew {
				res.Added = append(res.Added, rec)
			}
			stored, err := reg.Find(rec.ID)
			if err != nil {
				return err
			}
			res.Projects = append(res.Projects, stored.Clone())
		}
		return nil
	})
	if err != nil {
		return scanResult{}, fmt.Errorf("update registry: %w", err)
	}
	if res.Projects == nil {
		res.Projects = []project.Record{}
	}
	return res, nil
}

// watchScan rescans every interval until ctx is cancelled and prints projects
// that were not known before.
func watchScan(ctx context.Context, s *scanner.Scanner, c *cache.Cache, roots []string, opts scanner.Options, interval time.Duration) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		res, err := rescan(ctx, s, c, roots, opts)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			l.Printf("Warning: %v\n", err)
			continue
		}
		for _, p := range res.Added {
			out.Printf("+ %s\t%s\t%s\n", p.Name, p.Type, p.Path)
		}
	}
}

// rescan is one watch tick. Without opts.ForceRefresh, roots with a live
// cache entry are served from the cache until it expires; with it, every
// root is walked again and its entry replaced. Entries of roots that no
// longer exist are dropped so the failure is reported.
func rescan(ctx context.Context, s *scanner.Scanner, c *cache.Cache, roots []string, opts scanner.Options) (scanResult, error) {
	l := log.FromContext(ctx)

	if n := c.Cleanup(); n > 0 {
		l.Debug("expired cached roots", "count", n)
	}
	cached := 0
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil && c.Invalidate(root) {
			l.Debug("dropped cached root", "root", root, "err", err)
			continue
		}
		if c.Has(root) {
			cached++
		}
	}
	if opts.UseCache && !opts.ForceRefresh {
		l.Debug("rescan", "roots", len(roots), "cached", cached)
	}

	res, err := scanRoots(ctx, s, roots, opts)
	if err != nil {
		return scanResult{}, err
	}
	logCacheStats(ctx, c)
	return res, nil
}

func logCacheStats(ctx context.Context, c *cache.Cache) {
	st := c.Stats()
	log.FromContext(ctx).Debug("scan cache",
		"hits", st.Hits,
		"misses", st.Misses,
		"sets", st.Sets,
		"evictions", st.Evictions,
		"size", st.Size,
		"hit_rate", fmt.Sprintf("%.0f%%", st.HitRate()*100),
		"roots", c.Paths(),
	)
}
