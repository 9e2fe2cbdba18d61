package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/output"
	"github.com/raphi011/prj/internal/rank"
	"github.com/raphi011/prj/internal/ui/static"
)

type topOptions struct {
	limit int
	depth int
	json  bool
}

func newTopCmd() *cobra.Command {
	var opts topOptions

	cmd := &cobra.Command{
		Use:     "top",
		Short:   "Rank projects by recency, time spent and sessions",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Rank projects by combining three views of the registry:
most recently used, most time spent, and most sessions.

Higher positions in a view earn more points; a project's score is the sum
over all views it appears in. The WHY column lists those views.`,
		Example: `  prj top           # top 10
  prj top -n 3      # top 3
  prj top --depth 25 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "number", "n", 10, "Number of projects to show (0 = all)")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "Entries taken from each view (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")

	return cmd
}

func runTop(ctx context.Context, opts topOptions) error {
	cfg, err := configFrom(ctx)
	if err != nil {
		return err
	}
	out := output.FromContext(ctx)

	depth := opts.depth
	if depth <= 0 {
		depth = cfg.Top.Depth
	}

	reg, _, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	scored := rank.FromViews(reg, depth, opts.limit)
	if opts.json {
		return out.PrintJSON(scored)
	}
	out.Print(static.ScoredTable(scored))
	return nil
}
