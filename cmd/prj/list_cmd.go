package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/filter"
	"github.com/raphi011/prj/internal/output"
	"github.com/raphi011/prj/internal/scanner"
	"github.com/raphi011/prj/internal/ui/static"
)

type listOptions struct {
	types       []string
	tags        []string
	allTags     bool
	since       time.Duration
	minSessions int
	minDuration int
	name        string
	path        string
	json        bool
}

func newListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List registered projects",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List projects from the registry, optionally filtered.

Filters combine: each one narrows the result of the previous.

Patterns for --name and --path:
  text      case-insensitive substring
  re:expr   regular expression (also /expr/)
  ~text     fuzzy match (characters in order)`,
		Example: `  prj list --type go --type rust     # go or rust projects
  prj list --tag work --since 168h   # work projects used this week
  prj list --name ~apsrv             # fuzzy name match
  prj list --path 're:/work/'        # regexp on the path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.types, "type", "t", nil, "Only these project types (repeatable)")
	cmd.Flags().StringSliceVar(&opts.tags, "tag", nil, "Only projects with any of these tags (repeatable)")
	cmd.Flags().BoolVar(&opts.allTags, "all-tags", false, "Require every --tag instead of any")
	cmd.Flags().DurationVar(&opts.since, "since", 0, "Only projects used within this duration")
	cmd.Flags().IntVar(&opts.minSessions, "min-sessions", 0, "Minimum number of sessions")
	cmd.Flags().IntVar(&opts.minDuration, "min-duration", 0, "Minimum total time in minutes")
	cmd.Flags().StringVar(&opts.name, "name", "", "Name pattern")
	cmd.Flags().StringVar(&opts.path, "path", "", "Path pattern")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")

	cmd.RegisterFlagCompletionFunc("type", completeTypes)

	return cmd
}

func (o listOptions) criteria() (filter.Criteria, error) {
	types, err := parseTypes(o.types)
	if err != nil {
		return filter.Criteria{}, err
	}

	c := filter.Criteria{
		Types:          types,
		Tags:           o.tags,
		AllTags:        o.allTags,
		AccessedWithin: o.since,
		MinSessions:    o.minSessions,
		MinDuration:    o.minDuration,
		Now:            now(),
	}
	if o.name != "" {
		if c.Name, err = filter.ParsePattern(o.name); err != nil {
			return filter.Criteria{}, err
		}
	}
	if o.path != "" {
		if c.Path, err = filter.ParsePattern(o.path); err != nil {
			return filter.Criteria{}, err
		}
	}
	return c, nil
}

func runList(ctx context.Context, opts listOptions) error {
	out := output.FromContext(ctx)

	crit, err := opts.criteria()
	if err != nil {
		return err
	}

	reg, _, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	projects := filter.Apply(reg.Records(), crit)
	scanner.SortByName(projects)

	if opts.json {
		return out.PrintJSON(projects)
	}
	out.Print(static.ProjectTable(projects, crit.Now))
	return nil
}
