package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:                "eval <condition>",
	Short:              "在当前栈帧上对条件求值",
	Aliases:            []string{"p", "print"},
	DisableFlagParsing: true,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("参数错误")
		}

		s := CurrentSession
		cur, err := s.Current()
		if err != nil {
			return err
		}

		cb, err := s.Registry.Resolve(strings.Join(args, " "))
		if err != nil {
			return err
		}
		ok, err := cb(cur, nil, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	},
}

var predicatesCmd = &cobra.Command{
	Use:     "predicates",
	Short:   "列出所有可用的谓词",
	Aliases: []string{"preds"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	Run: func(cmd *cobra.Command, args []string) {
		for _, e := range CurrentSession.Registry.Entries() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", e.Name, e.Usage)
		}
	},
}

func init() {
	shellRootCmd.AddCommand(evalCmd)
	shellRootCmd.AddCommand(predicatesCmd)
}
