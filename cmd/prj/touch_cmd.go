package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/history"
	"github.com/raphi011/prj/internal/log"
	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/registry"
)

type touchOptions struct {
	ref     string
	minutes int
	meta    []string
	tags    []string
}

func newTouchCmd() *cobra.Command {
	var opts touchOptions

	cmd := &cobra.Command{
		Use:     "touch [project]",
		Short:   "Record a work session on a project",
		GroupID: GroupHistory,
		Args:    cobra.MaximumNArgs(1),
		Long: `Record a work session on a project.

The project can be a registered name or a path; it defaults to the current
directory. Unknown directories are classified and registered first.

The session counter is incremented, --minutes is added to the total time, and
the project moves to the top of the recent list.`,
		Example: `  prj touch                        # current directory
  prj touch api --minutes 45
  prj touch ~/code/web --meta branch=main --tag work`,
		ValidArgsFunction: completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ref = "."
			if len(args) > 0 {
				opts.ref = args[0]
			}
			rec, err := runTouch(cmd.Context(), opts)
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("%s: %d sessions\n", rec.Name, rec.Sessions)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.minutes, "minutes", "m", 0, "Length of the session in minutes")
	cmd.Flags().StringArrayVar(&opts.meta, "meta", nil, "Metadata for the recent list as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&opts.tags, "tag", nil, "Add tags to the project (repeatable)")

	return cmd
}

// runTouch bumps the session counters of a project and records it as most
// recently used.
func runTouch(ctx context.Context, opts touchOptions) (project.Record, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return project.Record{}, err
	}
	l := log.FromContext(ctx)

	meta, err := parseMeta(opts.meta)
	if err != nil {
		return project.Record{}, err
	}

	regPath, err := cfg.RegistryPath()
	if err != nil {
		return project.Record{}, err
	}

	var touched project.Record
	err = registry.Update(regPath, func(reg *registry.Registry) error {
		p, err := reg.Find(opts.ref)
		if err != nil {
			rec, regErr := recordForDir(opts.ref)
			if regErr != nil {
				return err
			}
			if _, err := reg.Upsert(rec); err != nil {
				return err
			}
			l.Debug("registered project", "path", rec.Path, "type", rec.Type)
			p = &rec
		}

		for _, tag := range opts.tags {
			if err := reg.AddTag(p.ID, tag); err != nil {
				return err
			}
		}
		updated, err := reg.Touch(p.ID, opts.minutes, now())
		if err != nil {
			return err
		}
		touched = updated.Clone()
		return nil
	})
	if err != nil {
		return project.Record{}, err
	}

	histPath, err := cfg.HistoryPath()
	if err != nil {
		return project.Record{}, err
	}
	if err := history.RecordAccess(histPath, cfg.Recent.MaxSize, touched.ID, meta); err != nil {
		return project.Record{}, fmt.Errorf("record history: %w", err)
	}
	return touched, nil
}

// recordForDir builds an unsaved record for an existing directory.
// Unclassifiable directories become generic projects.
func recordForDir(ref string) (project.Record, error) {
	abs, err := filepath.Abs(ref)
	if err != nil {
		return project.Record{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return project.Record{}, err
	}
	if !info.IsDir() {
		return project.Record{}, fmt.Errorf("not a directory: %s", abs)
	}

	t, ok := project.NewDetector(nil).Detect(abs)
	if !ok {
		t = project.TypeGeneric
	}
	return project.NewRecord(abs, t, now()), nil
}
