package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gatehouse/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gatehouse %s\n", version.GetVersion())
	},
}
