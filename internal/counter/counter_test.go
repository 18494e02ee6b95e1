package counter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goloc/internal/languages"
	"goloc/internal/model"
)

// languageByExt 是测试辅助函数，按后缀从注册表取语言描述。
func languageByExt(t *testing.T, ext string) *languages.Language {
	t.Helper()

	lang, ok := languages.NewRegistry().LanguageForFile("fixture" + ext)
	if !ok {
		t.Fatalf("no language registered for extension %s", ext)
	}
	return lang
}

// countText 是测试辅助函数，对内存文本执行完整统计。
func countText(t *testing.T, lang *languages.Language, content string) model.LineStats {
	t.Helper()

	stats, err := CountReader(strings.NewReader(content), lang)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if stats.Total != stats.Code+stats.Comments+stats.Blank {
		t.Fatalf("invariant violated: %+v", stats)
	}
	return stats
}

// TestHashCommentBlankAndCode 验证行注释语言的基础三分类。
func TestHashCommentBlankAndCode(t *testing.T) {
	stats := countText(t, languageByExt(t, ".sh"), "# hi\n\ncode()\n")

	if stats.Total != 3 || stats.Blank != 1 || stats.Comments != 1 || stats.Code != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestBlockCommentTerminatorWithTrailingCode 验证块注释结束后残留代码的改判。
func TestBlockCommentTerminatorWithTrailingCode(t *testing.T) {
	stats := countText(t, languageByExt(t, ".go"), "/* start\nstill comment */ code\n")

	if stats.Total != 2 || stats.Comments != 1 || stats.Code != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestBlockCommentTerminatorWithTrailingComment 验证结束标记后只跟行注释时仍算注释行。
func TestBlockCommentTerminatorWithTrailingComment(t *testing.T) {
	stats := countText(t, languageByExt(t, ".go"), "/* start\nend */ // tail\n")

	if stats.Total != 2 || stats.Comments != 2 || stats.Code != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestTripleQuoteStringSpansLines 验证跨行三引号字符串整体按代码统计。
func TestTripleQuoteStringSpansLines(t *testing.T) {
	stats := countText(t, languageByExt(t, ".py"), "s = \"\"\"\nx\n\"\"\"\n")

	if stats.Total != 3 || stats.Code != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestBlankLineInsideTripleQuoteString 验证字符串内部的空行仍计为 Blank。
// 这是刻意保留的既有行为，空白判定永远先于跨行状态。
func TestBlankLineInsideTripleQuoteString(t *testing.T) {
	stats := countText(t, languageByExt(t, ".py"), "s = \"\"\"\n\n\"\"\"\n")

	if stats.Total != 3 || stats.Code != 2 || stats.Blank != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestBlankLineInsideBlockComment 验证块注释内部的空行同样计为 Blank。
func TestBlankLineInsideBlockComment(t *testing.T) {
	stats := countText(t, languageByExt(t, ".go"), "/*\n\nstill\n*/\n")

	if stats.Total != 4 || stats.Comments != 3 || stats.Blank != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestEscapedQuoteStaysSingleString 验证转义引号不会把一行拆成两个字符串。
func TestEscapedQuoteStaysSingleString(t *testing.T) {
	stats := countText(t, languageByExt(t, ".py"), "m = \"say \\\"hi\\\"\"\nnext()\n")

	if stats.Total != 2 || stats.Code != 2 || stats.Comments != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestMixedLineCountsOnceAsCode 验证代码加尾注释的混合行只计一次 Code。
func TestMixedLineCountsOnceAsCode(t *testing.T) {
	stats := countText(t, languageByExt(t, ".go"), "x := 1 // note\n")

	if stats.Total != 1 || stats.Code != 1 || stats.Comments != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestStringContainsCommentToken 验证字符串内的 // 不会误判为注释。
func TestStringContainsCommentToken(t *testing.T) {
	stats := countText(t, languageByExt(t, ".go"), "s := \"hello // world\"\n")

	if stats.Total != 1 || stats.Code != 1 || stats.Comments != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRawStringSpansLines 验证反引号字符串跨行延续。
func TestRawStringSpansLines(t *testing.T) {
	stats := countText(t, languageByExt(t, ".go"), "s := `raw\ncontinues here`\n")

	if stats.Total != 2 || stats.Code != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestPythonTripleQuoteIsNeverComment 验证 Python 类语言不存在块注释语法。
func TestPythonTripleQuoteIsNeverComment(t *testing.T) {
	stats := countText(t, languageByExt(t, ".py"), "\"\"\"docstring\nnope\n\"\"\"\n")

	if stats.Comments != 0 {
		t.Fatalf("triple quote misread as comment: %+v", stats)
	}
}

// TestProseLanguageCountsComments 验证纯文本类语言非空行全部按文档统计。
func TestProseLanguageCountsComments(t *testing.T) {
	stats := countText(t, languageByExt(t, ".md"), "# Title\n\nsome text\n")

	if stats.Total != 3 || stats.Comments != 2 || stats.Blank != 1 || stats.Code != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestUnknownLanguageAllCode 验证未识别语言的非空行一律按代码统计。
func TestUnknownLanguageAllCode(t *testing.T) {
	stats := countText(t, nil, "anything\n# not a comment here\n")

	if stats.Total != 2 || stats.Code != 2 || stats.Comments != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestCRLFAndMissingFinalNewline 验证换行风格与“末行无换行”都不会丢行。
func TestCRLFAndMissingFinalNewline(t *testing.T) {
	stats := countText(t, languageByExt(t, ".go"), "x := 1\r\n\r\ny := 2")

	if stats.Total != 3 || stats.Code != 2 || stats.Blank != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestTotalMatchesPhysicalLines 验证分类不漏行不重复：
// 任意输入的 Total 恒等于物理行数。
func TestTotalMatchesPhysicalLines(t *testing.T) {
	inputs := []string{
		"a\nb\nc\n",
		"a\nb",
		"\n\n\n",
		"/* open\n\nnever closed\n",
		"s = \"\"\"\nhanging string\n",
	}

	lang := languageByExt(t, ".go")
	for _, input := range inputs {
		stats := countText(t, lang, input)

		expected := int64(len(strings.Split(strings.TrimSuffix(input, "\n"), "\n")))
		if stats.Total != expected {
			t.Fatalf("input %q: expected %d lines, got %d", input, expected, stats.Total)
		}
	}
}

// TestBinaryFileContributesZero 验证前 8 KiB 内出现空字节的文件整体跳过。
func TestBinaryFileContributesZero(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "binary.go")
	if err := os.WriteFile(filePath, []byte("package main\x00func main() {}\n"), 0o644); err != nil {
		t.Fatalf("write fixture failed: %v", err)
	}

	stats, err := CountFile(filePath, languageByExt(t, ".go"))
	if err != nil {
		t.Fatalf("count binary file failed: %v", err)
	}
	if stats != (model.LineStats{}) {
		t.Fatalf("expected zero stats for binary file, got %+v", stats)
	}
}

// TestCountFileMissingPath 验证打不开的文件返回 I/O 错误。
func TestCountFileMissingPath(t *testing.T) {
	if _, err := CountFile(filepath.Join(t.TempDir(), "absent.go"), nil); err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}
