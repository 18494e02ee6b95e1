package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCmd 创建 version 子命令，同时输出构建所用的 Go 版本。
func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示当前版本号",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("goloc %s (%s)\n", version, runtime.Version())
		},
	}
}
