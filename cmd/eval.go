/*
Copyright © 2021 hit.zhangjie@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/bpcond/pkg/criteria"
	"github.com/hitzhangjie/bpcond/pkg/frame"
)

// errConditionFalse makes the process exit non-zero when the thread would
// keep running, so eval can be used in scripts.
var errConditionFalse = errors.New("condition is false")

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <condition>",
	Short: "在调用栈文件描述的停止位置上对条件求值",
	Long: `在调用栈文件描述的停止位置上对条件求值，打印true或者false.

调用栈文件通过--stack或者配置项stack指定. 条件为false时退出码非0.`,
	Example: `  bpcond eval --stack stack.yaml 'not caller_is("main.main")'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("参数错误")
		}

		file := viper.GetString(keyStack)
		if file == "" {
			return errors.New("no stack file, use --stack")
		}
		th, err := frame.LoadStack(file)
		if err != nil {
			return err
		}

		ok, err := evaluate(criteria.Default, th.Current(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		if !ok {
			return errConditionFalse
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func evaluate(r *criteria.Registry, f frame.Frame, cond string) (bool, error) {
	cb, err := r.Resolve(cond)
	if err != nil {
		return false, err
	}
	return cb(f, nil, nil)
}
