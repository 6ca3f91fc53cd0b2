package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birdayz/a85/pkg/app"
)

// NewCommand returns the "a85 completion" command for the tree below a.Root.
func NewCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [SHELL]",
		Short: "Generate completion script for bash, zsh, fish or powershell",
		Long: `To load completions:

Bash:

$ source <(a85 completion bash)

# To load completions for each session, execute once:
Linux:
  $ a85 completion bash > /etc/bash_completion.d/a85
MacOS:
  $ a85 completion bash > /usr/local/etc/bash_completion.d/a85

Zsh:

# To load completions for each session, execute once:
$ a85 completion zsh > "${fpath[1]}/_a85"

# You will need to start a new shell for this setup to take effect.

Fish:

$ a85 completion fish | source

# To load completions for each session, execute once:
$ a85 completion fish > ~/.config/fish/completions/a85.fish
`,
		DisableFlagsInUseLine: true,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch args[0] {
			case "bash":
				err = a.Root.GenBashCompletionV2(a.OutWriter, true)
			case "zsh":
				err = a.Root.GenZshCompletion(a.OutWriter)
			case "fish":
				err = a.Root.GenFishCompletion(a.OutWriter, true)
			case "powershell":
				err = a.Root.GenPowerShellCompletionWithDesc(a.OutWriter)
			}
			if err != nil {
				return fmt.Errorf("failed to generate %s completion: %w", args[0], err)
			}
			return nil
		},
	}
}
