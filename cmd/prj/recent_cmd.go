package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/history"
	"github.com/raphi011/prj/internal/log"
	"github.com/raphi011/prj/internal/output"
	"github.com/raphi011/prj/internal/ui/progress"
	"github.com/raphi011/prj/internal/ui/prompt"
	"github.com/raphi011/prj/internal/ui/static"
)

type recentOptions struct {
	limit    int
	cleanup  bool
	remove   string
	clear    bool
	yes      bool
	merge    string
	strategy string
	json     bool
}

func newRecentCmd() *cobra.Command {
	var opts recentOptions

	cmd := &cobra.Command{
		Use:     "recent",
		Short:   "Show and maintain the recently used projects",
		GroupID: GroupHistory,
		Args:    cobra.NoArgs,
		Long: `Show the most recently used projects, newest first.

The list is bounded by recent.max_size; touching a project moves it to the
top and the oldest entry falls off.

Maintenance flags run before the list is printed:
  --cleanup   drop entries older than recent.max_age and missing paths
  --remove    drop one entry
  --clear     drop everything
  --merge     fold in another history file (e.g. from a second machine)`,
		Example: `  prj recent -n 5
  prj recent --cleanup
  prj recent --merge other-history.json --strategy keep
  prj recent --clear --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "number", "n", 10, "Number of entries to show (0 = all)")
	cmd.Flags().BoolVar(&opts.cleanup, "cleanup", false, "Remove entries older than recent.max_age or whose path is gone")
	cmd.Flags().StringVar(&opts.remove, "remove", "", "Remove the entry with this id")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Remove all entries")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Don't ask for confirmation")
	cmd.Flags().StringVar(&opts.merge, "merge", "", "Merge entries from another history file")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", `Merge strategy: "latest" or "keep" (default from config)`)
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("clear", "remove")

	cmd.RegisterFlagCompletionFunc("strategy", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(history.MergeLatest), string(history.MergeKeep)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (o recentOptions) mutates() bool {
	return o.cleanup || o.remove != "" || o.clear || o.merge != ""
}

func runRecent(ctx context.Context, opts recentOptions) error {
	cfg, err := configFrom(ctx)
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}

	if opts.clear && !opts.yes {
		if !progress.IsTerminal(os.Stdin) {
			return errors.New("refusing to clear history without --yes")
		}
		ans, err := prompt.Confirm("Clear the recent projects list?", false, os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
		if ans != prompt.AnswerYes {
			l.Debug("clear aborted", "answer", ans)
			return nil
		}
	}

	var tracker *history.Tracker
	if opts.mutates() {
		err = history.Update(path, cfg.Recent.MaxSize, func(t *history.Tracker) error {
			tracker = t
			return applyRecentChanges(ctx, t, opts, cfg.Recent.MergeStrategy, cfg.Recent.MaxAge)
		})
	} else {
		tracker, err = history.Load(path, cfg.Recent.MaxSize)
	}
	if err != nil {
		return err
	}

	st := tracker.Stats()
	l.Debug("recent", "size", st.Size, "max_size", st.MaxSize, "newest", st.Newest, "oldest", st.Oldest)

	entries := tracker.RecentWithMetadata(opts.limit)
	if opts.json {
		return out.PrintJSON(entries)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i + 1), e.ID, static.FormatAge(e.LastAccess, now()), formatMeta(e.Metadata)}
	}
	out.Print(static.RenderTable([]string{"#", "PROJECT", "LAST USED", "META"}, rows))
	return nil
}

// applyRecentChanges runs the maintenance flags in a fixed order:
// merge, cleanup, remove, clear.
func applyRecentChanges(ctx context.Context, t *history.Tracker, opts recentOptions, defaultStrategy string, maxAge time.Duration) error {
	l := log.FromContext(ctx)

	if opts.merge != "" {
		name := opts.strategy
		if name == "" {
			name = defaultStrategy
		}
		strategy, err := history.ParseMergeStrategy(name)
		if err != nil {
			return err
		}
		if _, err := os.Stat(opts.merge); err != nil {
			return fmt.Errorf("merge: %w", err)
		}
		other, err := history.Load(opts.merge, 0)
		if err != nil {
			return err
		}
		if err := t.Merge(other, strategy); err != nil {
			return err
		}
		l.Printf("Merged %d entries from %s (%s)\n", other.Len(), opts.merge, strategy)
	}

	if opts.cleanup {
		old := t.Cleanup(maxAge)
		gone := t.RemoveStale()
		l.Printf("Removed %d old and %d missing entries\n", old, gone)
	}

	if opts.remove != "" {
		if !t.Remove(opts.remove) {
			return fmt.Errorf("not in recent list: %s", opts.remove)
		}
	}

	if opts.clear {
		n := t.Len()
		t.Clear()
		l.Printf("Cleared %d entries\n", n)
	}
	return nil
}

func formatMeta(meta map[string]string) string {
	if len(meta) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(meta))
	for k, v := range meta {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
