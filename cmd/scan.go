package cmd

import (
	"errors"
	"runtime"

	"github.com/spf13/cobra"

	"goloc/internal/languages"
	"goloc/internal/scanner"
	"goloc/internal/walker"
)

// scanOptions 存放 scan 命令的可配置参数。
type scanOptions struct {
	outputOptions
	filterOptions
	workers  int
	hidden   bool
	noIgnore bool
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	goloc scan .
//	goloc scan ./project --format json --output result.json
//	goloc scan . -e go,rs -x vendor,testdata
func newScanCmd(registry *languages.Registry) *cobra.Command {
	options := scanOptions{
		outputOptions: outputOptions{format: "table", output: "output.json"},
		workers:       runtime.NumCPU(),
	}

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描本地目录或文件并输出统计结果",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.validate(); err != nil {
				return err
			}
			if options.workers <= 0 {
				return errors.New("workers must be greater than 0")
			}

			targetPath := "."
			if len(args) == 1 {
				targetPath = args[0]
			}

			w := &walker.Walker{
				Filter:        options.filter(),
				RespectIgnore: !options.noIgnore,
				IncludeHidden: options.hidden,
			}

			service := scanner.NewService(registry, options.workers)
			result, err := service.ScanPath(targetPath, w)
			if err != nil {
				return err
			}

			return options.render(cmd, result)
		},
	}

	scanCmd.Flags().IntVar(&options.workers, "workers", options.workers, "并发 worker 数量")
	scanCmd.Flags().BoolVarP(&options.hidden, "hidden", "H", false, "包含点号开头的隐藏文件与目录")
	scanCmd.Flags().BoolVar(&options.noIgnore, "no-ignore", false, "忽略 .gitignore 规则")
	registerSharedFlags(scanCmd, &options.outputOptions, &options.filterOptions)

	return scanCmd
}
