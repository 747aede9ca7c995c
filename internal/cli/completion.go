package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate a shell completion script",
		Long: `Generate a shell completion script for netgen.

The script is written to stdout. To try it in the current session:

  bash:        source <(netgen completion bash)
  zsh:         source <(netgen completion zsh)
  fish:        netgen completion fish | source
  powershell:  netgen completion powershell | Out-String | Invoke-Expression

To enable completions permanently, write the script to your shell's
completion directory instead, e.g.

  netgen completion bash > /etc/bash_completion.d/netgen
  netgen completion zsh  > "${fpath[1]}/_netgen"
  netgen completion fish > ~/.config/fish/completions/netgen.fish

zsh additionally needs compinit enabled in ~/.zshrc.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
