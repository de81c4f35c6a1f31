package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts for scenarist.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for scenarist.

To install completions:

  Bash (Linux):
    scenarist completion bash | sudo tee /etc/bash_completion.d/scenarist > /dev/null

  Bash (macOS with Homebrew):
    scenarist completion bash > $(brew --prefix)/etc/bash_completion.d/scenarist

  Zsh:
    scenarist completion zsh > "${fpath[1]}/_scenarist"
    # or
    scenarist completion zsh > ~/.zsh/completions/_scenarist

  Fish:
    scenarist completion fish > ~/.config/fish/completions/scenarist.fish

  PowerShell:
    scenarist completion powershell > scenarist.ps1
    # Then add ". scenarist.ps1" to your PowerShell profile`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeScenarioNames completes --scenarios values from the [[scenario]]
// entries of the nearest scenarist.toml. Manifests are not loaded.
func completeScenarioNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	resolved, _, err := loadAndResolveConfig(nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(resolved.Config.Scenarios))
	for _, sc := range resolved.Config.Scenarios {
		names = append(names, sc.Name+"\t"+sc.Description)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
