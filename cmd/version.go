package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print temoc version and the Slim protocol versions it speaks",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "temoc %s (commit: %s, built: %s)\n\n", Version, CommitSHA, BuildDate)
		fmt.Fprintln(out, "Slim protocol:")
		fmt.Fprintln(out, "  • V0.5 (or newer minor) banner handshake")
		fmt.Fprintln(out, "  • list-of-lists wire codec, 6-digit length-prefixed frames")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
