// Package scanner 提供本地扫描的并发调度能力。
// 该层负责任务分发、并发执行和结果归并，不负责语法解析细节。
package scanner

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"goloc/internal/counter"
	"goloc/internal/languages"
	"goloc/internal/model"
	"goloc/internal/walker"
)

// Service 是本地扫描服务对象。
type Service struct {
	registry *languages.Registry
	workers  int
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, workers int) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{
		registry: registry,
		workers:  workers,
	}
}

// ScanPath 扫描目录或单文件，返回聚合结果。
//
// 目录模式是典型的 fork/join：遍历产出的路径流入固定 worker 池，
// 每个 worker 独占自己的分类器状态并持有私有的部分 Aggregate，
// 热路径上没有任何锁，worker 结束后再做一次两两归并。
func (s *Service) ScanPath(targetPath string, w *walker.Walker) (*model.Aggregate, error) {
	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return nil, errors.New("scan path is empty")
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	paths := make(chan string, s.workers*4)
	partials := make(chan *model.Aggregate, s.workers)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			partials <- s.runWorker(paths)
		}()
	}

	walkErrChan := make(chan error, 1)
	go func() {
		defer close(paths)
		if info.IsDir() {
			walkErrChan <- w.Walk(absoluteTarget, func(path string) error {
				paths <- path
				return nil
			})
			return
		}
		// 用户直接给出单文件路径时跳过遍历，仅应用过滤规则。
		if w.Match(absoluteTarget) {
			paths <- absoluteTarget
		}
		walkErrChan <- nil
	}()

	workerGroup.Wait()

	result := model.NewAggregate()
	for i := 0; i < s.workers; i++ {
		result.Merge(<-partials)
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return nil, walkErr
	}

	return result, nil
}

// runWorker 消费路径直至通道关闭，返回私有的部分聚合结果。
// 打不开或读失败的文件仅记录 debug 日志后跳过，不中断整体扫描。
func (s *Service) runWorker(paths <-chan string) *model.Aggregate {
	local := model.NewAggregate()

	for path := range paths {
		lang, ok := s.registry.LanguageForFile(path)
		name := languages.OtherName
		if ok {
			name = lang.Name
		}

		stats, err := counter.CountFile(path, lang)
		if err != nil {
			slog.Debug("skip unreadable file", "path", path, "error", err)
			continue
		}

		local.AddFile(name, stats)
	}

	return local
}
