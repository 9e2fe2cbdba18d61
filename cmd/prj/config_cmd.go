package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/config"
	"github.com/raphi011/prj/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or create configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Show the effective configuration as TOML.

The config file lives at ~/.config/prj/config.toml (or $PRJ_CONFIG).
PRJ_ROOTS and PRJ_NO_CACHE override file settings.`,
		Example: `  prj config         # show effective config
  prj config init    # create default config file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context())
		},
	}

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  prj config init      # create config
  prj config init -f   # overwrite existing config
  prj config init -s   # print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func runConfigShow(ctx context.Context) error {
	cfg, err := configFrom(ctx)
	if err != nil {
		return err
	}
	text, err := cfg.Encode()
	if err != nil {
		return err
	}
	output.FromContext(ctx).Print(text)
	return nil
}
