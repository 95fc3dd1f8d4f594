package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at link time.
var Version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of archgen.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fprintVersion(cmd.OutOrStdout())
		},
	}
}

func fprintVersion(w io.Writer) {
	fmt.Fprintf(w, "archgen version %s\n", Version)
	fmt.Fprintf(w, "%s/%s\n", runtime.GOOS, runtime.GOARCH)
}
