package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:     "scan [root...]",
		Short:   "Discover projects below the scan roots",
		GroupID: GroupCore,
		Long: `Discover projects in the immediate subdirectories of each root.

Each subdirectory is classified by its marker files (CLAUDE.md, package.json,
go.mod, Cargo.toml, ...). Directories that take longer than detect_timeout to
classify are skipped. Discovered projects are added to the registry; counters
and tags of known projects are kept.

Without arguments the roots from the config file (or PRJ_ROOTS) are used.

With --watch, roots are rescanned at the interval. Results are cached for
scan.cache_ttl, so a rescan only notices new directories once the entry
expires, unless --refresh is given.`,
		Example: `  prj scan                      # scan configured roots
  prj scan ~/code ~/work        # scan explicit roots
  prj scan --json               # machine readable output
  prj scan --watch 1m           # rescan every minute, print new projects
  prj scan --watch 1m --refresh # ignore cached results on every rescan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.roots = args
			return runScan(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Bypass the scan cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "With --watch, re-walk every root on each rescan instead of using cached results")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")
	cmd.Flags().DurationVar(&opts.watch, "watch", 0, "Rescan at this interval until interrupted")
	cmd.MarkFlagsMutuallyExclusive("json", "watch")

	return cmd
}

type scanOptions struct {
	roots   []string
	noCache bool
	refresh bool
	json    bool
	watch   time.Duration
}
