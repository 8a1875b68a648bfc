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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/bpcond/cmd/shell"
	"github.com/hitzhangjie/bpcond/pkg/frame"
)

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "交互式模拟断点停止，验证断点条件",
	Long:  `交互式模拟断点停止，验证断点条件. 输入help查看所有命令.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := shell.NewSession(
			shell.WithPrompt(viper.GetString(keyPrompt)),
			shell.WithHistory(viper.GetString(keyHistory)),
		)

		if file := viper.GetString(keyStack); file != "" {
			th, err := frame.LoadStack(file)
			if err != nil {
				return err
			}
			s.Thread = th
			s.Desc = shell.Describe(th)
		}

		shell.CurrentSession = s.AtExit(shell.Cleanup)
		shell.CurrentSession.Start()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
