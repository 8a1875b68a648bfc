package shell

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exitCmd = &cobra.Command{
	Use:     "exit",
	Short:   "结束会话",
	Aliases: []string{"quit", "q"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupOthers,
	},
	Run: func(cmd *cobra.Command, args []string) {
		CurrentSession.Stop()
	},
}

func init() {
	shellRootCmd.AddCommand(exitCmd)
}

// Cleanup 会话结束时打印断点命中统计
func Cleanup() {
	s := CurrentSession
	if s == nil {
		return
	}
	for _, bp := range s.Table.List() {
		fmt.Printf("breakpoint %d at %s hit %d times\n", bp.ID, bp.Pos, bp.HitCount.Load())
	}
}
