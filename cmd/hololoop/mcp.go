package main

import (
	"context"

	"github.com/aretw0/hololoop/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server over stdio",
	Long: `Runs the frame loop against the simulated host and serves MCP on
Standard Input/Output, so an agent can inspect and drive the app.

Tools: get_state, activate, say. Resource: hololoop://state.
The same server is available over HTTP at /mcp when running 'hololoop serve'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		opts := runOptions(cmd)
		opts.Quiet = true
		return cli.ServeMCP(sigCtx, cli.MCPOptions{
			RunOptions: opts,
			In:         cmd.InOrStdin(),
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	addLoopFlags(mcpCmd)
}
