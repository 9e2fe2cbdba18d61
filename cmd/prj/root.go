package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/config"
	"github.com/raphi011/prj/internal/log"
	"github.com/raphi011/prj/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// now is the clock used for timestamps written by commands
	now = time.Now
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupHistory = "history"
	GroupConfig  = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prj",
	Short: "Find, rank and jump between your projects",
	Long: `prj discovers project directories below your configured roots,
classifies them (go, node, rust, python, ...) and keeps track of the ones
you work on, so you can list, rank and jump back to them.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are parsed now, so the logger can honor -v/-q
		ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, &loadedCfg)
	ctx = log.WithLogger(ctx, log.New(os.Stderr, false, false))

	// Stdout for primary data; styling is downsampled for pipes and NO_COLOR
	ctx = output.WithPrinter(ctx, output.Styled(os.Stdout, os.Environ()))

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'prj -h' for help")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output (timeouts, cache stats)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupHistory, Title: "History Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newTopCmd())

	// History commands
	rootCmd.AddCommand(newTouchCmd())
	rootCmd.AddCommand(newRecentCmd())
	rootCmd.AddCommand(newCdCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
