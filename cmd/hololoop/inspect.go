package main

import (
	"github.com/aretw0/hololoop/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Run a short session and report cameras, tracking, content and grammar",
	Long: `Loads the saved state, runs a few frames (or up to the last scripted event)
and prints a report of the resulting snapshot. Use --mermaid for a diagram.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		return cli.Inspect(cmd.Context(), cli.InspectOptions{
			RunOptions: runOptions(cmd),
			Mermaid:    mermaid,
		})
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	addLoopFlags(inspectCmd)
	inspectCmd.Flags().Bool("mermaid", false, "Print a Mermaid flowchart instead of the report")
}
