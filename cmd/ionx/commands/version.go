package commands

import (
	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags, e.g.
// -X github.com/thoreinstein/ionx/cmd/ionx/commands.Version=1.2.0
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)

func newVersionCmd(_ *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  `Print the version, commit, and build date of ionx.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fprintf(w, "ionx version %s\n", Version)
			fprintf(w, "  commit: %s\n", Commit)
			fprintf(w, "  built:  %s\n", Date)
		},
	}
}
