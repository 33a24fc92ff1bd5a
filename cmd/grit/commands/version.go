package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/grit/display"
	"github.com/teranos/grit/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show grit version information",
	Long:  `Display version, build time, commit hash, and platform information for the grit binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(out, info, false)
		}
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().Bool("json", false, "Output version info as JSON")
}
