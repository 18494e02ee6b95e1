package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goloc/internal/model"
)

// sampleResult 是测试辅助函数，构造一份固定聚合结果。
func sampleResult() *model.Aggregate {
	result := model.NewAggregate()
	result.AddFile("Go", model.LineStats{Total: 10, Code: 7, Comments: 2, Blank: 1})
	result.AddFile("Go", model.LineStats{Total: 2, Code: 2})
	result.AddFile("Python", model.LineStats{Total: 20, Code: 15, Comments: 3, Blank: 2})
	return result
}

// TestPrintTableContainsRows 验证表格包含语言行与总计行。
func TestPrintTableContainsRows(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTable(&buf, sampleResult()); err != nil {
		t.Fatalf("print table failed: %v", err)
	}

	output := buf.String()
	for _, expected := range []string{"Language", "Go", "Python", "Total"} {
		if !strings.Contains(output, expected) {
			t.Fatalf("table output missing %q:\n%s", expected, output)
		}
	}
}

// TestSortedLanguagesByCodeDescending 验证语言按代码行数降序排列。
func TestSortedLanguagesByCodeDescending(t *testing.T) {
	names := sortedLanguages(sampleResult())

	if len(names) != 2 || names[0] != "Python" || names[1] != "Go" {
		t.Fatalf("unexpected order: %v", names)
	}
}

// TestPrintJSONShape 验证 JSON 输出的结构与数值。
func TestPrintJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("print json failed: %v", err)
	}

	var decoded struct {
		Languages map[string]struct {
			Files    int64 `json:"files"`
			Total    int64 `json:"total"`
			Code     int64 `json:"code"`
			Comments int64 `json:"comments"`
			Blank    int64 `json:"blank"`
		} `json:"languages"`
		Total struct {
			Files int64 `json:"files"`
			Total int64 `json:"total"`
		} `json:"total"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal output failed: %v", err)
	}

	if decoded.Total.Files != 3 || decoded.Total.Total != 32 {
		t.Fatalf("unexpected total block: %+v", decoded.Total)
	}
	goStats, ok := decoded.Languages["Go"]
	if !ok || goStats.Files != 2 || goStats.Code != 9 || goStats.Comments != 2 {
		t.Fatalf("unexpected go block: %+v", decoded.Languages)
	}
}

// TestWriteJSONFileCreatesDirectory 验证导出路径所在目录会自动创建。
func TestWriteJSONFileCreatesDirectory(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "nested", "dir", "result.json")

	if err := WriteJSONFile(outputPath, sampleResult()); err != nil {
		t.Fatalf("write json file failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read exported file failed: %v", err)
	}
	if !json.Valid(content) {
		t.Fatalf("exported file is not valid json")
	}
}
