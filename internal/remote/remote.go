// Package remote 把 GitHub 仓库归档变成聚合统计结果。
//
// 默认走流式路径：压缩归档边下载边解包，条目经有界队列进入固定
// worker 池，全程不在本地磁盘落任何文件；--download 模式则先解包
// 到临时目录，再复用本地扫描流水线。
package remote

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/klauspost/compress/gzip"

	"goloc/internal/counter"
	"goloc/internal/languages"
	"goloc/internal/model"
	"goloc/internal/walker"
)

const (
	// maxArchiveBytes 是服务端提前声明长度时的体积上限。
	maxArchiveBytes = 500 * 1024 * 1024
	// queueMultiplier 决定有界队列容量（workers × 8）。
	// 队列满时生产者阻塞，在途文件内容最多 queueMultiplier×workers 份，
	// 既限住了峰值内存又能让 worker 保持忙碌。
	queueMultiplier = 8

	githubAPIBase = "https://api.github.com"
	userAgent     = "goloc"
)

// ErrArchiveTooLarge 表示声明体积超过上限，请求在传输任何字节前被拒绝。
var ErrArchiveTooLarge = errors.New("repository archive too large")

// RemoteFile 是流经有界队列的归档条目。
// 被哪个 worker 取走就归哪个 worker 独占，分类完成后即丢弃。
type RemoteFile struct {
	RelPath string
	Bytes   []byte
}

// Streamer 负责远程仓库的获取与统计编排。
type Streamer struct {
	registry *languages.Registry
	client   *http.Client
	workers  int
	baseURL  string
}

// NewStreamer 创建远程统计服务。
func NewStreamer(registry *languages.Registry, workers int) *Streamer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Streamer{
		registry: registry,
		client:   &http.Client{},
		workers:  workers,
		baseURL:  githubAPIBase,
	}
}

// ParseRepoURL 从 GitHub 仓库链接中解析 owner 和 repo。
// 仅支持 github.com 域名，仓库名允许携带 .git 后缀。
func ParseRepoURL(input string) (string, string, error) {
	parsed, err := url.Parse(input)
	if err != nil {
		return "", "", fmt.Errorf("parse repository url: %w", err)
	}
	if parsed.Hostname() != "github.com" {
		return "", "", errors.New("only github.com urls are supported")
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", "", errors.New("invalid github repository url")
	}

	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")
	if repo == "" {
		return "", "", errors.New("invalid github repository url")
	}

	return owner, repo, nil
}

// Count 以流式方式统计远程仓库。
//
// 单个顺序生产者（归档解码天然串行）把通过过滤的条目推入有界队列，
// workers 个消费者各自持有私有的部分 Aggregate 并在队列关闭后各发布
// 一次，编排方恰好收取 workers 份部分结果做归并。生产者一旦出错，
// 整个运行失败，不返回任何部分结果。
func (s *Streamer) Count(link string, ref string, token string, filter *walker.Filter) (*model.Aggregate, error) {
	body, err := s.fetch(link, ref, token)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	jobs := make(chan RemoteFile, s.workers*queueMultiplier)
	partials := make(chan *model.Aggregate, s.workers)

	for i := 0; i < s.workers; i++ {
		go func() {
			partials <- s.runConsumer(jobs)
		}()
	}

	produceErr := s.produce(body, filter, jobs)
	close(jobs)

	if produceErr != nil {
		return nil, produceErr
	}

	result := model.NewAggregate()
	for i := 0; i < s.workers; i++ {
		result.Merge(<-partials)
	}

	return result, nil
}

// runConsumer 消费队列直至关闭，返回私有的部分聚合结果。
func (s *Streamer) runConsumer(jobs <-chan RemoteFile) *model.Aggregate {
	local := model.NewAggregate()

	for file := range jobs {
		lang, ok := s.registry.LanguageForFile(file.RelPath)
		name := languages.OtherName
		if ok {
			name = lang.Name
		}

		stats, err := counter.CountReader(bytes.NewReader(file.Bytes), lang)
		if err != nil {
			slog.Debug("skip remote file", "path", file.RelPath, "error", err)
			continue
		}

		local.AddFile(name, stats)
	}

	return local
}

// produce 顺序解包归档并把常规文件条目推入队列。
// GitHub 归档总会包裹一层顶层目录，这里统一剥掉第一段路径。
func (s *Streamer) produce(archive io.Reader, filter *walker.Filter, jobs chan<- RemoteFile) error {
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
		if header.Typeflag != tar.TypeReg {
			continue
		}

		relPath := stripArchiveRoot(header.Name)
		if relPath == "" || !filter.Match(relPath) {
			continue
		}

		content, err := io.ReadAll(tarReader)
		if err != nil {
			return fmt.Errorf("read archive entry %s: %w", relPath, err)
		}
		if counter.IsBinary(content) {
			continue
		}

		jobs <- RemoteFile{RelPath: relPath, Bytes: content}
	}
}

// stripArchiveRoot 去掉归档统一包裹的顶层目录。
func stripArchiveRoot(name string) string {
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// fetch 请求 tarball 接口并返回响应体。
// 体积上限只在服务端提前声明 Content-Length 时生效；
// chunked 等未知长度响应不做预拒绝（已知局限）。
func (s *Streamer) fetch(link string, ref string, token string) (io.ReadCloser, error) {
	owner, repo, err := ParseRepoURL(link)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/tarball", s.baseURL, owner, repo)
	if ref != "" {
		endpoint += "/" + ref
	}

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build archive request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch repository archive: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch repository archive: unexpected status %s", resp.Status)
	}

	if resp.ContentLength > maxArchiveBytes {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d bytes", ErrArchiveTooLarge, resp.ContentLength)
	}

	return resp.Body, nil
}
