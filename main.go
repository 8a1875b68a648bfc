/*
Copyright © 2020 hit.zhangjie@gmail.com

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
package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/hitzhangjie/bpcond/cmd"
	"github.com/hitzhangjie/bpcond/cmd/shell"
)

func main() {
	go processSignals()
	cmd.Execute()
}

func processSignals() {
	ch := make(chan os.Signal, 16)
	signal.Notify(ch, unix.SIGTERM, unix.SIGINT, unix.SIGQUIT, unix.SIGURG)

	for sig := range ch {

		switch sig {
		case unix.SIGURG:
			// 非协作式抢占信号，忽略这个信号
			break
		case unix.SIGTERM, unix.SIGINT, unix.SIGQUIT:
			if s := shell.CurrentSession; s != nil {
				s.Stop()
				continue
			}
			os.Exit(0)
		}
	}
}
