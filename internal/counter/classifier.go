// Package counter 实现 goloc 的核心算法：
// 基于语言描述的逐行分类状态机，以及驱动它的文件/流计数器。
// 同一套实现同时服务本地磁盘扫描和远程内存流水线。
package counter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"goloc/internal/languages"
)

// StringKind 标识当前打开的字符串字面量类型。
type StringKind int

const (
	NoString StringKind = iota
	SingleQuote
	DoubleQuote
	TripleSingle
	TripleDouble
	Backtick
)

// terminator 返回该字符串类型的结束定界符。
func (k StringKind) terminator() string {
	switch k {
	case SingleQuote:
		return "'"
	case DoubleQuote:
		return `"`
	case TripleSingle:
		return "'''"
	case TripleDouble:
		return `"""`
	case Backtick:
		return "`"
	default:
		return ""
	}
}

// ScanState 记录单个文件内跨行延续的扫描状态。
// 状态以值形式在每次 ClassifyLine 调用间显式传递，
// 不含任何共享可变字段，多个文件可以在不同 goroutine 上并发分类。
type ScanState struct {
	InBlockComment bool
	InString       StringKind
}

// LineClass 是单行的最终分类结果。
type LineClass int

const (
	Blank LineClass = iota
	Comment
	Code
)

// ClassifyLine 对一个物理行做分类，并返回更新后的跨行状态。
// lang 为 nil 表示未识别语言：没有任何注释语法，非空行一律是 Code。
func ClassifyLine(line string, lang *languages.Language, state ScanState) (LineClass, ScanState) {
	trimmed := strings.TrimSpace(line)

	// 空白判定必须先于跨行状态：
	// 未闭合字符串或块注释内部的空行仍计为 Blank（既有行为，保持不变）。
	if trimmed == "" {
		return Blank, state
	}

	// 纯文本类语言没有代码概念，非空行全部按文档内容统计。
	if lang != nil && lang.Prose {
		return Comment, state
	}

	if state.InBlockComment {
		pos := strings.Index(trimmed, lang.BlockEnd)
		if pos < 0 {
			return Comment, state
		}
		state.InBlockComment = false

		// 结束标记后残留实际代码时，整行改判为 Code。
		// LineComment 为空时 HasPrefix 恒为真，没有行注释的语言不做改判。
		after := strings.TrimSpace(trimmed[pos+len(lang.BlockEnd):])
		if after != "" && !strings.HasPrefix(after, lang.LineComment) {
			return Code, state
		}
		return Comment, state
	}

	if state.InString != NoString {
		if containsUnescaped(trimmed, state.InString.terminator()) {
			state.InString = NoString
		}
		return Code, state
	}

	return scanLine(trimmed, lang, state)
}

// scanLine 在 Normal 状态下从左到右扫描一行，
// 跟踪 hasCode/hasComment 两个标记并在行尾写回跨行状态。
func scanLine(trimmed string, lang *languages.Language, state ScanState) (LineClass, ScanState) {
	lineComment := ""
	blockStart := ""
	blockEnd := ""
	if lang != nil {
		lineComment = lang.LineComment
		// Python 类语言的三引号永远是字符串字面量，块注释语法整体关闭。
		if !lang.PythonLike && lang.HasBlockComment() {
			blockStart = lang.BlockStart
			blockEnd = lang.BlockEnd
		}
	}

	hasCode := false
	hasComment := false
	current := NoString
	idx := 0

	for idx < len(trimmed) {
		remaining := trimmed[idx:]

		if current != NoString {
			hasCode = true
			terminator := current.terminator()
			if strings.HasPrefix(remaining, terminator) && !isEscaped(trimmed, idx) {
				current = NoString
				idx += len(terminator)
				continue
			}
			_, size := utf8.DecodeRuneInString(remaining)
			idx += size
			continue
		}

		// 三引号必须先于单字符引号检测，
		// 否则 """ 会被误读为“空字符串加一个孤立引号”。
		if strings.HasPrefix(remaining, `"""`) {
			current = TripleDouble
			hasCode = true
			idx += 3
			continue
		}
		if strings.HasPrefix(remaining, "'''") {
			current = TripleSingle
			hasCode = true
			idx += 3
			continue
		}

		if remaining[0] == '"' && !isEscaped(trimmed, idx) {
			current = DoubleQuote
			hasCode = true
			idx++
			continue
		}
		if remaining[0] == '\'' && !isEscaped(trimmed, idx) {
			current = SingleQuote
			hasCode = true
			idx++
			continue
		}
		if remaining[0] == '`' {
			current = Backtick
			hasCode = true
			idx++
			continue
		}

		if blockStart != "" && strings.HasPrefix(remaining, blockStart) {
			hasComment = true
			rest := remaining[len(blockStart):]
			if endPos := strings.Index(rest, blockEnd); endPos >= 0 {
				// 块注释在本行闭合，跳过整段后继续扫描。
				idx += len(blockStart) + endPos + len(blockEnd)
				continue
			}
			state.InBlockComment = true
			break
		}

		if lineComment != "" && strings.HasPrefix(remaining, lineComment) {
			hasComment = true
			break
		}

		r, size := utf8.DecodeRuneInString(remaining)
		if !unicode.IsSpace(r) {
			hasCode = true
		}
		idx += size
	}

	// 行尾仍有未闭合字符串时，把类型带入下一行。
	if current != NoString {
		state.InString = current
	}

	switch {
	case !hasCode && !hasComment:
		return Blank, state
	case !hasCode:
		return Comment, state
	default:
		// 代码与尾注释混合的行只计一次，按 Code 归类。
		return Code, state
	}
}

// isEscaped 报告位置 pos 处的定界符是否被转义：
// 紧邻其前的连续反斜杠数量为奇数即视为转义。
func isEscaped(s string, pos int) bool {
	count := 0
	for i := pos - 1; i >= 0 && s[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

// containsUnescaped 报告 s 中是否存在未被转义的 delim。
func containsUnescaped(s string, delim string) bool {
	idx := 0
	for idx < len(s) {
		pos := strings.Index(s[idx:], delim)
		if pos < 0 {
			return false
		}
		actual := idx + pos
		if !isEscaped(s, actual) {
			return true
		}
		idx = actual + 1
	}
	return false
}
