package cmd

import (
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"goloc/internal/languages"
	"goloc/internal/model"
	"goloc/internal/remote"
	"goloc/internal/scanner"
	"goloc/internal/walker"
)

// remoteOptions 存放 remote 命令的可配置参数。
type remoteOptions struct {
	outputOptions
	filterOptions
	workers  int
	ref      string
	token    string
	download bool
}

// newRemoteCmd 创建 remote 子命令。
// 默认走流式路径，归档内容不落盘；--download 切换为解包到临时目录。
// 示例：
//
//	goloc remote https://github.com/spf13/cobra
//	goloc remote https://github.com/spf13/cobra --ref v1.9.1 --format json
func newRemoteCmd(registry *languages.Registry) *cobra.Command {
	options := remoteOptions{
		outputOptions: outputOptions{format: "table", output: "output.json"},
		workers:       runtime.NumCPU(),
	}

	remoteCmd := &cobra.Command{
		Use:   "remote <github-url>",
		Short: "统计远程 GitHub 仓库的代码行数",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.validate(); err != nil {
				return err
			}
			if options.workers <= 0 {
				return errors.New("workers must be greater than 0")
			}

			// 私有仓库凭证优先取 flag，其次取环境（含 .env 注入）。
			token := strings.TrimSpace(options.token)
			if token == "" {
				token = os.Getenv("GITHUB_TOKEN")
			}

			streamer := remote.NewStreamer(registry, options.workers)

			var result *model.Aggregate
			var err error
			if options.download {
				w := &walker.Walker{Filter: options.filter(), RespectIgnore: true}
				service := scanner.NewService(registry, options.workers)
				result, err = streamer.Download(args[0], options.ref, token, w, service)
			} else {
				filter := options.filter()
				result, err = streamer.Count(args[0], options.ref, token, &filter)
			}
			if err != nil {
				return err
			}

			return options.render(cmd, result)
		},
	}

	remoteCmd.Flags().StringVar(&options.ref, "ref", "", "分支、tag 或 commit，默认仓库默认分支")
	remoteCmd.Flags().StringVar(&options.token, "token", "", "GitHub 访问令牌，缺省读取 GITHUB_TOKEN")
	remoteCmd.Flags().BoolVar(&options.download, "download", false, "先解包到临时目录再统计，而非流式处理")
	remoteCmd.Flags().IntVar(&options.workers, "workers", options.workers, "并发 worker 数量")
	registerSharedFlags(remoteCmd, &options.outputOptions, &options.filterOptions)

	return remoteCmd
}
