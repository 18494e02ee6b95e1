// Package cmd 提供 goloc 的命令行入口与子命令编排。
package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goloc/internal/languages"
)

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	// .env 不存在时静默跳过，凭证也可以直接放环境变量。
	_ = godotenv.Load()

	registry := languages.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "goloc",
		Short: "按语言统计代码行数的命令行工具",
		Long: "goloc 统计本地目录或远程 GitHub 仓库的代码行数，\n" +
			"按语言区分 total/code/comments/blank，支持并发扫描、\n" +
			"归档流式统计与 JSON 导出。",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "输出 debug 级别日志")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newScanCmd(registry))
	rootCmd.AddCommand(newRemoteCmd(registry))

	return rootCmd
}
