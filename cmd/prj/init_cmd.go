package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/output"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "init <shell>",
		Short:     "Output shell wrapper function",
		GroupID:   GroupConfig,
		ValidArgs: shellWrappers.names(),
		Args:      cobra.ExactArgs(1),
		Long: `Output a shell wrapper function that makes 'prj cd' change directories.

A subprocess cannot change the directory of its parent shell, so 'prj cd'
only prints a path. The wrapper runs it and cds into the result.`,
		Example: `  eval "$(prj init bash)"          # add to ~/.bashrc
  eval "$(prj init zsh)"           # add to ~/.zshrc
  prj init fish | source           # add to ~/.config/fish/config.fish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := shellWrappers.script(args[0])
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Print(script)
			return nil
		},
	}

	return cmd
}

type wrappers []struct{ shell, script string }

func (w wrappers) names() []string {
	names := make([]string, len(w))
	for i, s := range w {
		names[i] = s.shell
	}
	return names
}

func (w wrappers) script(shell string) (string, error) {
	for _, s := range w {
		if s.shell == shell {
			return s.script, nil
		}
	}
	return "", fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
}

var shellWrappers = wrappers{
	{"bash", posixInit},
	{"zsh", posixInit},
	{"fish", fishInit},
}

// posixInit leaves 'prj cd --copy' alone since it prints nothing to cd into.
const posixInit = `# prj shell wrapper
# Install: eval "$(prj init bash)" or eval "$(prj init zsh)"

prj() {
    if [[ "$1" == "cd" && "$2" != "-c" && "$2" != "--copy" ]]; then
        shift
        local dir
        dir="$(command prj cd "$@")" && cd "$dir"
    else
        command prj "$@"
    fi
}
`

const fishInit = `# prj shell wrapper
# Install: prj init fish | source

function prj --wraps=prj --description 'Project finder'
    if test (count $argv) -gt 0; and test "$argv[1]" = "cd"; and not contains -- -c $argv; and not contains -- --copy $argv
        set -l dir (command prj $argv)
        and cd $dir
    else
        command prj $argv
    end
end
`
