package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/pkg/kanata"
)

// Version is set via ldflags at build time.
var Version = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version of kanata and the trace format version it was written against.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kanata %s (trace format %04d)\n", Version, kanata.FormatVersion)
		},
	}
}
