package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"goloc/internal/model"
	"goloc/internal/report"
	"goloc/internal/walker"
)

// outputOptions 存放 scan/remote 共用的输出参数。
type outputOptions struct {
	format string
	output string
}

// validate 归一化并校验输出格式。
func (o *outputOptions) validate() error {
	format := strings.ToLower(strings.TrimSpace(o.format))
	if format != "table" && format != "json" {
		return errors.New("unsupported format, allowed values: table, json")
	}
	o.format = format
	return nil
}

// render 按选定格式输出聚合结果，json 格式同时导出到文件。
func (o *outputOptions) render(cmd *cobra.Command, result *model.Aggregate) error {
	switch o.format {
	case "json":
		if err := report.PrintJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}

		outputPath := strings.TrimSpace(o.output)
		if outputPath == "" {
			outputPath = "output.json"
		}
		if err := report.WriteJSONFile(outputPath, result); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nJSON exported to %s\n", outputPath)
		return nil
	default:
		return report.PrintTable(cmd.OutOrStdout(), result)
	}
}

// filterOptions 存放 scan/remote 共用的过滤参数。
type filterOptions struct {
	extensions []string
	excludes   []string
}

// filter 构造路径过滤规则。
func (f *filterOptions) filter() walker.Filter {
	return walker.Filter{
		Extensions: f.extensions,
		Excludes:   f.excludes,
	}
}

// registerSharedFlags 注册 scan/remote 共用的输出与过滤 flag。
func registerSharedFlags(cmd *cobra.Command, output *outputOptions, filter *filterOptions) {
	cmd.Flags().StringVar(&output.format, "format", output.format, "输出格式: table 或 json")
	cmd.Flags().StringVar(&output.output, "output", output.output, "json 导出文件路径，默认 output.json")
	cmd.Flags().StringSliceVarP(&filter.extensions, "extensions", "e", nil, "后缀允许列表，逗号分隔（如 go,rs）")
	cmd.Flags().StringSliceVarP(&filter.excludes, "exclude", "x", nil, "排除子串列表，路径命中任一子串即跳过")
}
