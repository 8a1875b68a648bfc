package shell

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var breaksCmd = &cobra.Command{
	Use:     "breaks",
	Short:   "列出所有断点",
	Long:    "列出所有断点",
	Aliases: []string{"bs", "breakpoints"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 1, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "id\tpos\tstate\tcondition\thits\n")
		for _, bp := range CurrentSession.Table.List() {
			fmt.Fprintln(w, bp.String())
		}
	},
}

func init() {
	shellRootCmd.AddCommand(breaksCmd)
}
