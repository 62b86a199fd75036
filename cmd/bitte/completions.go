package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/bitte/pkg/types"
)

var completionsCmd = &cobra.Command{
	Use:   "completions",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts.

Examples:
  # Load completions for the current bash session
  source <(bitte completions --shell bash)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shell, _ := cmd.Flags().GetString("shell")
		root := cmd.Root()

		switch shell {
		case "bash":
			return root.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return root.GenZshCompletion(os.Stdout)
		case "fish":
			return root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("%w: unsupported shell %q (bash, zsh, fish, powershell)", types.ErrConfigInvalid, shell)
		}
	},
}

func init() {
	completionsCmd.Flags().String("shell", "", "Shell to generate completions for: bash, zsh, fish or powershell")
	_ = completionsCmd.MarkFlagRequired("shell")
}
