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
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "BPCOND"

	keyStack   = "stack"
	keyHistory = "history"
	keyPrompt  = "prompt"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bpcond",
	Short: "breakpoint stop conditions",
	Long: `bpcond provides predicates that decide whether a debugger should stop
at a breakpoint, e.g. only when called by some function or from some library.

Conditions look like:

	caller_is("main.main")
	not any_caller_from("libc.so.6")
	called_on("worker")

Use 'bpcond list' to see all predicates, 'bpcond eval' to check a condition
against a stack file and 'bpcond shell' to simulate stops interactively.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bpcond.yaml)")
	rootCmd.PersistentFlags().String(keyStack, "", "stack description file (yaml, json or toml)")
	viper.BindPFlag(keyStack, rootCmd.PersistentFlags().Lookup(keyStack))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := homedir.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "find home directory err: %v\n", err)
		home = "."
	}

	viper.SetDefault(keyHistory, filepath.Join(home, ".bpcond_history"))
	viper.SetDefault(keyPrompt, "bpcond> ")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".bpcond" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".bpcond")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "read config %s err: %v\n", cfgFile, err)
	}
}
