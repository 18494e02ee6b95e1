// Package walker 负责本地目录遍历与路径过滤。
// 遍历遵循 .gitignore（根目录与嵌套目录）、隐藏文件策略、
// 后缀允许列表和排除子串列表，产出的路径直接进入扫描流水线。
package walker

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Filter 是与遍历方式无关的路径过滤规则。
// 本地磁盘扫描与远程归档流水线共用同一套判定。
type Filter struct {
	// Extensions 是后缀允许列表（不带点，大小写不敏感），为空表示不过滤。
	Extensions []string
	// Excludes 中任一子串出现在路径里即排除该文件。
	Excludes []string
}

// Match 报告路径是否通过后缀与排除子串过滤。
// 设置了允许列表时，没有后缀的文件一律不通过。
func (f *Filter) Match(path string) bool {
	if f == nil {
		return true
	}

	if len(f.Extensions) > 0 {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if ext == "" {
			return false
		}
		allowed := false
		for _, item := range f.Extensions {
			if strings.EqualFold(item, ext) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	for _, exclude := range f.Excludes {
		if exclude != "" && strings.Contains(path, exclude) {
			return false
		}
	}

	return true
}

// Walker 遍历本地目录树并产出通过全部过滤的常规文件路径。
type Walker struct {
	Filter
	// RespectIgnore 控制是否遵循 .gitignore 规则。
	RespectIgnore bool
	// IncludeHidden 控制是否进入点号开头的隐藏文件与目录。
	IncludeHidden bool
}

// ignoreScope 把一份 .gitignore 绑定到它生效的目录。
type ignoreScope struct {
	base    string
	matcher *ignore.GitIgnore
}

// Walk 从 root 开始深度优先遍历，每个通过过滤的文件路径回调一次 fn。
// fn 返回的错误会原样终止遍历。
func (w *Walker) Walk(root string, fn func(path string) error) error {
	var scopes []ignoreScope

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		// 读不了的条目只记录 debug 日志后跳过，本地扫描不因单点 I/O 失败中断。
		if walkErr != nil {
			slog.Debug("skip unreadable entry", "path", path, "error", walkErr)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != root {
				if name == ".git" {
					return filepath.SkipDir
				}
				if !w.IncludeHidden && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if w.ignored(scopes, path, true) {
					return filepath.SkipDir
				}
			}
			// 嵌套 .gitignore 在进入目录时编译，作用域限定在该目录之下。
			if w.RespectIgnore {
				if matcher, err := ignore.CompileIgnoreFile(filepath.Join(path, ".gitignore")); err == nil && matcher != nil {
					scopes = append(scopes, ignoreScope{base: path, matcher: matcher})
				}
			}
			return nil
		}

		if !w.IncludeHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if w.ignored(scopes, path, false) {
			return nil
		}
		if !w.Match(path) {
			return nil
		}

		return fn(path)
	})
}

// ignored 依次用所有祖先目录的 .gitignore 判定路径。
func (w *Walker) ignored(scopes []ignoreScope, path string, isDir bool) bool {
	for _, scope := range scopes {
		rel, err := filepath.Rel(scope.base, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isDir {
			rel += "/"
		}
		if scope.matcher.MatchesPath(rel) {
			return true
		}
	}
	return false
}
