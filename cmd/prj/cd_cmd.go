package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/history"
	"github.com/raphi011/prj/internal/log"
	"github.com/raphi011/prj/internal/output"
)

func newCdCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:     "cd [project]",
		Short:   "Print a project path for shell scripting",
		GroupID: GroupHistory,
		Args:    cobra.MaximumNArgs(1),
		Long: `Print the path of a project for shell scripting.

Use with shell command substitution: cd $(prj cd api)

The argument can be a registered name, id or path. With no arguments,
returns the most recently used project.`,
		Example: `  cd $(prj cd)          # most recently used project
  cd $(prj cd api)      # project named api
  prj cd --copy web     # copy path to clipboard`,
		ValidArgsFunction: completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}

			path, err := resolveCdTarget(ctx, ref)
			if err != nil {
				return err
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(path); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				log.FromContext(ctx).Printf("Copied %s\n", path)
				return nil
			}

			output.FromContext(ctx).Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy path to clipboard instead of printing")

	return cmd
}

// resolveCdTarget finds the path for ref, or the most recent project when ref
// is empty, and records the access in the history.
func resolveCdTarget(ctx context.Context, ref string) (string, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return "", err
	}
	l := log.FromContext(ctx)

	histPath, err := cfg.HistoryPath()
	if err != nil {
		return "", err
	}

	if ref == "" {
		var target string
		err := history.Update(histPath, cfg.Recent.MaxSize, func(t *history.Tracker) error {
			if removed := t.RemoveStale(); removed > 0 {
				l.Debug("dropped missing projects from history", "count", removed)
			}
			recent := t.Recent(1)
			if len(recent) == 0 {
				return errors.New("no recent projects (use prj touch or prj cd <project> first)")
			}
			target = recent[0]
			return nil
		})
		return target, err
	}

	reg, _, err := loadRegistry(ctx)
	if err != nil {
		return "", err
	}
	p, err := reg.Find(ref)
	if err != nil {
		return "", err
	}

	if err := history.RecordAccess(histPath, cfg.Recent.MaxSize, p.ID, nil); err != nil {
		l.Printf("Warning: failed to record history: %v\n", err)
	}
	return p.Path, nil
}
