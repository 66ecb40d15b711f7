package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for codetrack. Activity, course and
project names complete from your data.

To load completions:

Bash:
  $ source <(codetrack completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ codetrack completion bash > /etc/bash_completion.d/codetrack
  # macOS:
  $ codetrack completion bash > $(brew --prefix)/etc/bash_completion.d/codetrack

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ codetrack completion zsh > "${fpath[1]}/_codetrack"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ codetrack completion fish | source

  # To load completions for each session, execute once:
  $ codetrack completion fish > ~/.config/fish/completions/codetrack.fish

PowerShell:
  PS> codetrack completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
