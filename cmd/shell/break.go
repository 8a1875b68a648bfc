package shell

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
)

var breakCmd = &cobra.Command{
	Use:   "break <pos> [condition]",
	Short: "添加断点，可以指定停止条件",
	Long: `添加断点，断点位置pos为函数名，停止条件为一个已注册的谓词调用.

条件格式:
- caller_is("main.main")
- not any_caller_from("libc.so.6")
- called_on(2)

条件为空时断点总是停止，可以通过predicates命令查看所有的谓词.`,
	Aliases:            []string{"b", "breakpoint"},
	DisableFlagParsing: true, // 条件中可能出现"-1"
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {

		pos, cond := splitPos(strings.Join(args, " "))
		if pos == "" {
			return errors.New("参数错误")
		}

		bp, err := CurrentSession.Table.Add(pos, cond)
		if err != nil {
			return fmt.Errorf("add breakpoint %s: %w", pos, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "add breakpoint %d at %s\n", bp.ID, pos)
		return nil
	},
}

func init() {
	shellRootCmd.AddCommand(breakCmd)
}

// splitPos splits "pos condition" at the first white space, leaving the
// condition's own spacing alone.
func splitPos(line string) (pos, cond string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx:])
}
