package counter

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"goloc/internal/languages"
	"goloc/internal/model"
)

// binaryProbeBytes 是二进制嗅探的窗口大小。
const binaryProbeBytes = 8192

// IsBinary 报告内容前 8 KiB 内是否出现空字节。
// 命中即视为二进制文件，整个文件不参与任何统计。
func IsBinary(content []byte) bool {
	probe := content
	if len(probe) > binaryProbeBytes {
		probe = probe[:binaryProbeBytes]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// normalizeLine 去除行尾的换行符，兼容 Unix 的 \n 与 Windows 的 \r\n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// CountReader 对一个行式字节流做完整统计。
//
// 这里使用 ReadString('\n') 做“按行流式”读取：
// 1) 不会把整个内容一次性载入内存；
// 2) 与行级统计模型（code/comments/blank）天然对齐。
// 跨行状态以 ScanState 值在循环内显式传递，流结束即丢弃。
func CountReader(reader io.Reader, lang *languages.Language) (model.LineStats, error) {
	var stats model.LineStats
	var state ScanState

	bufferedReader := bufio.NewReader(reader)
	for {
		line, err := bufferedReader.ReadString('\n')
		// EOF 且没有任何剩余字符时，说明已经没有可处理行，直接退出。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		// 非 EOF 错误需要立即返回，避免输出不完整统计结果。
		if err != nil && !errors.Is(err, io.EOF) {
			return stats, err
		}

		var class LineClass
		class, state = ClassifyLine(normalizeLine(line), lang, state)

		stats.Total++
		switch class {
		case Blank:
			stats.Blank++
		case Comment:
			stats.Comments++
		default:
			stats.Code++
		}

		// EOF 但 line 非空代表“最后一行没有换行符”，这行已处理完，随后退出。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return stats, nil
}

// CountFile 打开磁盘文件并统计。
// 仅在文件无法打开或读取时返回错误；
// 打得开但属于二进制的文件返回全零统计而非错误。
func CountFile(path string, lang *languages.Language) (model.LineStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.LineStats{}, err
	}
	defer file.Close()

	bufferedReader := bufio.NewReaderSize(file, binaryProbeBytes)
	prefix, peekErr := bufferedReader.Peek(binaryProbeBytes)
	if peekErr != nil && !errors.Is(peekErr, io.EOF) && !errors.Is(peekErr, bufio.ErrBufferFull) {
		return model.LineStats{}, peekErr
	}
	if IsBinary(prefix) {
		return model.LineStats{}, nil
	}

	return CountReader(bufferedReader, lang)
}
