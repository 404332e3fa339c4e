package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "slideclock version %s (built %s, %s)\n", Version, BuildTime, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
