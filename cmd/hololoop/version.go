package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hololoop"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hololoop",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hololoop version %s\n", strings.TrimSpace(hololoop.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
