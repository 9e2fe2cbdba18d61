package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/doctor"
	"github.com/raphi011/prj/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair registry and history issues",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose and repair the project registry and the recent list.

Checks:
- Registered paths still exist and are directories
- Project types still match the markers on disk
- Project names are unique
- Recent entries point at existing, registered directories`,
		Example: `  prj doctor          # check for issues
  prj doctor --fix    # repair what can be repaired`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair fixable issues")

	return cmd
}

func runDoctor(ctx context.Context, fix bool) error {
	cfg, err := configFrom(ctx)
	if err != nil {
		return err
	}
	out := output.FromContext(ctx)

	regPath, err := cfg.RegistryPath()
	if err != nil {
		return err
	}
	histPath, err := cfg.HistoryPath()
	if err != nil {
		return err
	}

	report, err := doctor.Run(ctx, doctor.Options{
		RegistryPath: regPath,
		HistoryPath:  histPath,
		HistorySize:  cfg.Recent.MaxSize,
		Fix:          fix,
		Now:          now,
	})
	if err != nil {
		return err
	}

	printDoctorSummary(out, report.Stats)

	if len(report.Issues) == 0 {
		out.Println("\n✓ No issues found")
		return nil
	}

	out.Printf("\nFound %d issues:\n", len(report.Issues))
	printIssuesByCategory(out, report.Issues)

	if !fix {
		out.Println("\nRun 'prj doctor --fix' to repair.")
		return fmt.Errorf("%d issues found", len(report.Issues))
	}

	out.Println()
	for _, res := range report.Results {
		if res.Err != nil {
			out.Printf("  ✗ %s %s: %v\n", res.Issue.FixAction, res.Issue.Key, res.Err)
			continue
		}
		out.Printf("  ✓ %s %s\n", res.Issue.FixAction, res.Issue.Key)
	}

	if failed := report.Failed(); failed > 0 {
		out.Printf("\nFixed %d issues, %d failed.\n", report.Fixed(), failed)
		return fmt.Errorf("%d fixes failed", failed)
	}
	out.Printf("\nFixed %d issues.\n", report.Fixed())
	if report.Stats.Manual > 0 {
		out.Printf("%d issues need a manual decision.\n", report.Stats.Manual)
	}
	return nil
}

func printDoctorSummary(out *output.Printer, stats doctor.IssueStats) {
	out.Printf("  ✓ %d projects registered\n", stats.Projects)
	if stats.ProjectIssues > 0 {
		out.Printf("  ⚠ %d registry issues\n", stats.ProjectIssues)
	}
	out.Printf("  ✓ %d recent entries\n", stats.Entries)
	if stats.EntryIssues > 0 {
		out.Printf("  ⚠ %d history issues\n", stats.EntryIssues)
	}
}

func printIssuesByCategory(out *output.Printer, issues []doctor.Issue) {
	byCategory := make(map[doctor.IssueCategory][]doctor.Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[doctor.IssueCategory]string{
		doctor.CategoryRegistry: "Registry issues",
		doctor.CategoryHistory:  "History issues",
	}

	for _, cat := range []doctor.IssueCategory{doctor.CategoryRegistry, doctor.CategoryHistory} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}
		out.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			out.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
