package shell

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/bpcond/pkg/target"
)

var stopCmd = &cobra.Command{
	Use:   "stop [pos]",
	Short: "模拟在pos处停止，判断断点条件",
	Long: `模拟线程在pos处停止，依次判断该位置所有启用断点的条件.

pos默认为当前栈帧的函数名. 条件求值出错时按照不停止处理.`,
	Aliases: []string{"hit"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupCtrlFlow,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("参数错误")
		}

		s := CurrentSession
		cur, err := s.Current()
		if err != nil {
			return err
		}

		pos := cur.Name()
		if len(args) == 1 {
			pos = args[0]
		}

		out := cmd.OutOrStdout()
		results := s.Table.Stop(cur, pos)
		if len(results) == 0 {
			fmt.Fprintf(out, "no breakpoint at %s, continue\n", pos)
			return nil
		}

		for _, r := range results {
			switch {
			case r.Err != nil:
				fmt.Fprintf(out, "breakpoint %d: condition error: %v\n", r.Breakpoint.ID, r.Err)
			case r.Stop:
				fmt.Fprintf(out, "breakpoint %d: stop\n", r.Breakpoint.ID)
			default:
				fmt.Fprintf(out, "breakpoint %d: continue\n", r.Breakpoint.ID)
			}
		}

		if target.ShouldStop(results) {
			fmt.Fprintf(out, "stopped at %s\n", pos)
		} else {
			fmt.Fprintf(out, "continue at %s\n", pos)
		}
		return nil
	},
}

func init() {
	shellRootCmd.AddCommand(stopCmd)
}
