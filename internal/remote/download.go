package remote

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"goloc/internal/model"
	"goloc/internal/scanner"
	"goloc/internal/walker"
)

// Download 是远程统计的落盘模式：
// 归档完整解包到临时目录后复用本地扫描流水线，结束时清理临时目录。
func (s *Streamer) Download(link string, ref string, token string, w *walker.Walker, service *scanner.Service) (*model.Aggregate, error) {
	body, err := s.fetch(link, ref, token)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	tempDir, err := os.MkdirTemp("", "goloc-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := extractArchive(body, tempDir); err != nil {
		return nil, err
	}

	root, err := findArchiveRoot(tempDir)
	if err != nil {
		return nil, err
	}

	return service.ScanPath(root, w)
}

// extractArchive 把 gzip+tar 归档解包到 destination。
// 条目路径先做清洗，拒绝任何逃出目标目录的相对路径。
func extractArchive(archive io.Reader, destination string) error {
	gzipReader, err := gzip.NewReader(archive)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read archive entry: %w", err)
		}

		cleaned := filepath.Clean(filepath.FromSlash(header.Name))
		if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) || filepath.IsAbs(cleaned) {
			return fmt.Errorf("archive entry escapes destination: %s", header.Name)
		}
		target := filepath.Join(destination, cleaned)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", cleaned, err)
			}
		case tar.TypeReg:
			if err := writeArchiveFile(target, tarReader); err != nil {
				return fmt.Errorf("extract %s: %w", cleaned, err)
			}
		default:
			// 符号链接等非常规条目一律跳过。
		}
	}
}

// writeArchiveFile 把单个归档条目写到磁盘。
func writeArchiveFile(target string, content io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(file, content)
	closeErr := file.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// findArchiveRoot 定位归档包裹的唯一顶层目录。
func findArchiveRoot(tempDir string) (string, error) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return "", fmt.Errorf("read temp directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			return filepath.Join(tempDir, entry.Name()), nil
		}
	}

	return "", errors.New("could not find extracted repository root")
}
