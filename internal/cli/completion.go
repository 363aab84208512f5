package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sigpad.

  $ source <(sigpad completion bash)
  $ sigpad completion zsh > "${fpath[1]}/_sigpad"
  $ sigpad completion fish > ~/.config/fish/completions/sigpad.fish
  PS> sigpad completion powershell | Out-String | Invoke-Expression

Recording arguments and --sig values complete to .jsonl files.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeRecording completes the single event recording argument.
func completeRecording(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"jsonl"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeSignaturePair completes field=recording values. Before the "="
// it suggests common field names; after it, recording files.
func completeSignaturePair(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if !strings.Contains(toComplete, "=") {
		return []string{"participantSignature=", "guardianSignature="}, cobra.ShellCompDirectiveNoSpace
	}
	return []string{"jsonl"}, cobra.ShellCompDirectiveFilterFileExt
}
