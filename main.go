// main.go 是 goloc 的程序入口，只负责注入版本号并执行 Cobra 根命令。
// 全部业务逻辑位于 cmd/internal 目录，方便单独测试。
package main

import (
	"fmt"
	"os"

	"goloc/cmd"
)

// version 默认值为 dev，发布时通过 -ldflags "-X main.version=vX.Y.Z" 覆盖。
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "goloc: %v\n", err)
		os.Exit(1)
	}
}
