package main

import (
	"context"

	"github.com/aretw0/hololoop/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the app and expose it over HTTP",
	Long: `Runs the frame loop against the simulated host and serves the HTTP API
(/health, /info, /state, /events, /openapi.json, /metrics and POST /activate)
plus the MCP streamable transport at /mcp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cli.ServeOptions{
			RunOptions: runOptions(cmd),
			Addr:       addr,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addLoopFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from http.addr)")
}
