package shell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear <breakpoint no.>",
	Short: "清除指定编号的断点",
	Long:  `清除指定编号的断点`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args)
		if err != nil {
			return err
		}

		// 移除断点
		bp, err := CurrentSession.Table.Clear(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "移除断点%d成功\n", bp.ID)
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <breakpoint no.>",
	Short: "启用指定编号的断点",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return CurrentSession.Table.SetEnabled(id, true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <breakpoint no.>",
	Short: "禁用指定编号的断点",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return CurrentSession.Table.SetEnabled(id, false)
	},
}

func init() {
	shellRootCmd.AddCommand(clearCmd)
	shellRootCmd.AddCommand(enableCmd)
	shellRootCmd.AddCommand(disableCmd)
}

func parseID(args []string) (uint64, error) {
	if len(args) != 1 {
		return 0, errors.New("参数错误")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid breakpoint no. %s: %v", args[0], err)
	}
	return id, nil
}
