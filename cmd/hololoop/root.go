package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hololoop",
	Short: "hololoop runs a world-locked holographic app against a simulated headset",
	Long: `hololoop drives the frame loop of a mixed-reality app: camera lifecycle,
positional tracking, voice commands and state persistence, against a simulated host.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "hololoop.yaml", "Configuration file (missing file uses defaults)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}
