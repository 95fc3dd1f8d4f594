package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/archgen/datarecording"
)

func newHistoryCommand() *cobra.Command {
	var showArtifacts bool

	cmd := &cobra.Command{
		Use:   "history <ledger_path> [build_id]",
		Short: "List the runs recorded in an SQLite ledger.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			buildID := ""
			if len(args) == 2 {
				buildID = args[1]
			}

			runs, err := datarecording.ReadRuns(cmd.Context(), args[0], buildID)
			if err != nil {
				return err
			}

			printRuns(cmd.OutOrStdout(), runs, showArtifacts)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVarP(&showArtifacts, "artifacts", "a", false,
		"List the artifacts of every run")

	return cmd
}

func printRuns(w io.Writer, runs []datarecording.Run, showArtifacts bool) {
	fmt.Fprintf(w, "%-20s  %-16s  %-11s  %-29s  %s\n",
		"RUN", "BUILD", "STATUS", "STARTED", "ARTIFACTS")

	for _, r := range runs {
		p := r.Properties
		fmt.Fprintf(w, "%-20s  %-16s  %-11s  %-29s  %d\n",
			r.RunID,
			orDash(p[datarecording.PropBuildID]),
			orDash(p[datarecording.PropStatus]),
			orDash(p[datarecording.PropStartTime]),
			len(r.Artifacts))

		if !showArtifacts {
			continue
		}

		for _, a := range r.Artifacts {
			fmt.Fprintf(w, "    %-16s %8d  %s\n", a.Name, a.Bytes, a.SHA256)
		}
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}

	return s
}
