package main

import (
	"github.com/aretw0/hololoop/internal/cli"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or clear the persisted session state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := stateOptions(cmd)
		opts.YAML, _ = cmd.Flags().GetBool("yaml")
		return cli.ShowState(cmd.Context(), opts)
	},
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ResetState(cmd.Context(), stateOptions(cmd))
	},
}

func stateOptions(cmd *cobra.Command) cli.StateOptions {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.StateOptions{
		ConfigPath: configPath,
		Debug:      debug,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
	}
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd, stateResetCmd)

	stateShowCmd.Flags().Bool("yaml", false, "Print YAML instead of JSON")
}
