// Package report 提供 goloc 的输出能力。
// 当前实现支持彩色表格和 JSON 格式（含文件导出）。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"goloc/internal/model"
)

const tableWidth = 80

var (
	styleBorder   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleLanguage = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFiles    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTotal    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleCode     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleComments = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleBlank    = lipgloss.NewStyle().Faint(true)
	styleSummary  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
)

// PrintTable 以彩色表格展示聚合结果，语言按代码行数降序排列。
// 先用 fmt 做定宽填充再上色，避免 ANSI 序列破坏对齐。
func PrintTable(writer io.Writer, result *model.Aggregate) error {
	border := styleBorder.Render(strings.Repeat("─", tableWidth))

	header := fmt.Sprintf(
		"%s %s %s %s %s %s",
		styleHeader.Render(fmt.Sprintf("%-15s", "Language")),
		styleHeader.Render(fmt.Sprintf("%10s", "Files")),
		styleHeader.Render(fmt.Sprintf("%12s", "Total")),
		styleHeader.Render(fmt.Sprintf("%12s", "Code")),
		styleHeader.Render(fmt.Sprintf("%12s", "Comments")),
		styleHeader.Render(fmt.Sprintf("%12s", "Blank")),
	)

	if _, err := fmt.Fprintf(writer, "\n%s\n%s\n%s\n", border, header, border); err != nil {
		return err
	}

	for _, name := range sortedLanguages(result) {
		stats := result.Languages[name]
		row := fmt.Sprintf(
			"%s %s %s %s %s %s",
			styleLanguage.Render(fmt.Sprintf("%-15s", name)),
			styleFiles.Render(fmt.Sprintf("%10d", stats.Files)),
			styleTotal.Render(fmt.Sprintf("%12d", stats.Stats.Total)),
			styleCode.Render(fmt.Sprintf("%12d", stats.Stats.Code)),
			styleComments.Render(fmt.Sprintf("%12d", stats.Stats.Comments)),
			styleBlank.Render(fmt.Sprintf("%12d", stats.Stats.Blank)),
		)
		if _, err := fmt.Fprintln(writer, row); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf(
		"%s %s %s %s %s %s",
		styleSummary.Render(fmt.Sprintf("%-15s", "Total")),
		styleSummary.Render(fmt.Sprintf("%10d", result.Files)),
		styleSummary.Render(fmt.Sprintf("%12d", result.Total.Total)),
		styleSummary.Render(fmt.Sprintf("%12d", result.Total.Code)),
		styleSummary.Render(fmt.Sprintf("%12d", result.Total.Comments)),
		styleSummary.Render(fmt.Sprintf("%12d", result.Total.Blank)),
	)

	if _, err := fmt.Fprintf(writer, "%s\n%s\n%s\n\n", border, summary, border); err != nil {
		return err
	}
	return nil
}

// sortedLanguages 返回按代码行数降序（同值按名称升序）排列的语言名。
func sortedLanguages(result *model.Aggregate) []string {
	names := make([]string, 0, len(result.Languages))
	for name := range result.Languages {
		names = append(names, name)
	}

	sort.Slice(names, func(i int, j int) bool {
		left := result.Languages[names[i]].Stats.Code
		right := result.Languages[names[j]].Stats.Code
		if left != right {
			return left > right
		}
		return names[i] < names[j]
	})

	return names
}

// jsonStats 是 JSON 输出中单个语言或总计的统计行。
type jsonStats struct {
	Files    int64 `json:"files"`
	Total    int64 `json:"total"`
	Code     int64 `json:"code"`
	Comments int64 `json:"comments"`
	Blank    int64 `json:"blank"`
}

// jsonOutput 是完整的 JSON 输出模型。
type jsonOutput struct {
	Languages map[string]jsonStats `json:"languages"`
	Total     jsonStats            `json:"total"`
}

// buildJSONOutput 把聚合结果映射为 JSON 输出模型。
func buildJSONOutput(result *model.Aggregate) jsonOutput {
	output := jsonOutput{
		Languages: make(map[string]jsonStats, len(result.Languages)),
		Total: jsonStats{
			Files:    result.Files,
			Total:    result.Total.Total,
			Code:     result.Total.Code,
			Comments: result.Total.Comments,
			Blank:    result.Total.Blank,
		},
	}

	for name, stats := range result.Languages {
		output.Languages[name] = jsonStats{
			Files:    stats.Files,
			Total:    stats.Stats.Total,
			Code:     stats.Stats.Code,
			Comments: stats.Stats.Comments,
			Blank:    stats.Stats.Blank,
		}
	}

	return output
}

// PrintJSON 把聚合结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result *model.Aggregate) error {
	content, err := json.MarshalIndent(buildJSONOutput(result), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteJSONFile 将 JSON 结果导出到指定路径。
// 如果目录不存在会自动创建。
func WriteJSONFile(path string, result *model.Aggregate) error {
	content, err := json.MarshalIndent(buildJSONOutput(result), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
