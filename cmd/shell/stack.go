package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/bpcond/pkg/frame"
)

var stackCmd = &cobra.Command{
	Use:     "stack [file]",
	Short:   "加载或者打印模拟的调用栈",
	Long:    `指定file时从yaml/json/toml文件中加载调用栈，否则打印当前调用栈`,
	Aliases: []string{"bt", "backtrace"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupStack,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s := CurrentSession

		if len(args) > 1 {
			return errors.New("参数错误")
		}
		if len(args) == 1 {
			th, err := frame.LoadStack(args[0])
			if err != nil {
				return err
			}
			s.Thread = th
			s.Desc = Describe(th)
		}

		if s.Thread == nil {
			return ErrNoStack
		}
		fmt.Fprint(cmd.OutOrStdout(), s.Thread.String())
		return nil
	},
}

var framesCmd = &cobra.Command{
	Use:   "frames <name[@module]>...",
	Short: "设置调用栈，第一个为当前栈帧",
	Long: `设置调用栈，第一个为当前栈帧，最后一个为最外层栈帧.

例如: frames write main.flush@/tmp/app main.main@/tmp/app`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupStack,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("参数错误")
		}

		s := CurrentSession
		desc := s.Desc
		desc.Frames = nil
		for _, arg := range args {
			desc.Frames = append(desc.Frames, parseFrameArg(arg))
		}
		if err := s.SetStack(desc); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), s.Thread.String())
		return nil
	},
}

var threadCmd = &cobra.Command{
	Use:   "thread <index> [name] [queue]",
	Short: "设置当前线程的编号、名字和队列",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupStack,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || len(args) > 3 {
			return errors.New("参数错误")
		}

		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid thread index %s: %v", args[0], err)
		}

		s := CurrentSession
		desc := s.Desc
		desc.Index = idx
		desc.Name = ""
		desc.Queue = ""
		if len(args) > 1 {
			desc.Name = args[1]
		}
		if len(args) > 2 {
			desc.Queue = args[2]
		}

		// 还没有调用栈时只记录线程信息
		if len(desc.Frames) == 0 {
			s.Desc = desc
			return nil
		}
		return s.SetStack(desc)
	},
}

func init() {
	shellRootCmd.AddCommand(stackCmd)
	shellRootCmd.AddCommand(framesCmd)
	shellRootCmd.AddCommand(threadCmd)
}

func parseFrameArg(arg string) frame.FrameDesc {
	idx := strings.LastIndex(arg, "@")
	if idx <= 0 {
		return frame.FrameDesc{Name: arg}
	}
	return frame.FrameDesc{Name: arg[:idx], Module: arg[idx+1:]}
}

// Describe rebuilds the description of a loaded thread so later edits keep it.
func Describe(th *frame.StackThread) frame.StackDesc {
	desc := frame.StackDesc{
		Index: th.Index(),
		Name:  th.Name(),
		Queue: th.Queue(),
	}
	for _, f := range th.Frames() {
		fd := frame.FrameDesc{Name: f.Name()}
		if m := f.Module(); !frame.IsNil(m) {
			fd.Module = m.Path()
		}
		desc.Frames = append(desc.Frames, fd)
	}
	return desc
}
