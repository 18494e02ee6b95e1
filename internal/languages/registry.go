// Package languages 维护“文件后缀 -> 语言语法描述”的静态注册表。
// 注册表在进程启动时构建一次，之后只读，查找是纯函数。
package languages

import (
	"path/filepath"
	"sort"
	"strings"
)

// OtherName 是未识别后缀文件归属的语言桶。
// 这类文件没有任何注释语法，非空行一律按代码统计。
const OtherName = "Other"

// Language 描述一种语言的注释与字符串语法。
// 所有字段在注册表构建后不再修改。
type Language struct {
	// Name 返回语言名称（例如 Go、JavaScript）。
	Name string
	// Extensions 是该语言的后缀列表（包含点号，如 .go）。
	Extensions []string
	// LineComment 是行注释前缀，空串表示该语言没有行注释。
	LineComment string
	// BlockStart/BlockEnd 是块注释的起止标记，同时为空表示没有块注释。
	BlockStart string
	BlockEnd   string
	// Prose 标记纯文本类语言：没有代码概念，非空行全部按注释（文档）统计。
	Prose bool
	// PythonLike 标记“三引号永远是字符串”的语言，块注释语法整体关闭。
	PythonLike bool
}

// HasBlockComment 报告该语言是否定义了块注释。
func (l *Language) HasBlockComment() bool {
	return l.BlockStart != "" && l.BlockEnd != ""
}

// builtin 是内置语言表。顺序仅影响 Languages() 之前的遍历，不影响查找。
var builtin = []*Language{
	{Name: "Rust", Extensions: []string{".rs"}, LineComment: "//", BlockStart: "/*", BlockEnd: "*/"},
	{Name: "Python", Extensions: []string{".py", ".pyw"}, LineComment: "#", PythonLike: true},
	{Name: "JavaScript", Extensions: []string{".js", ".mjs", ".cjs"}, LineComment: "//", BlockStart: "/*", BlockEnd: "*/"},
	{Name: "TypeScript", Extensions: []string{".ts", ".tsx"}, LineComment: "//", BlockStart: "/*", BlockEnd: "*/"},
	{Name: "C", Extensions: []string{".c", ".h"}, LineComment: "//", BlockStart: "/*", BlockEnd: "*/"},
	{Name: "C++", Extensions: []string{".cpp", ".hpp", ".cc", ".cxx", ".hxx"}, LineComment: "//", BlockStart: "/*", BlockEnd: "*/"},
	{Name: "Java", Extensions: []string{".java"}, LineComment: "//", BlockStart: "/*", BlockEnd: "*/"},
	{Name: "Go", Extensions: []string{".go"}, LineComment: "//", BlockStart: "/*", BlockEnd: "*/"},
	{Name: "HTML", Extensions: []string{".html", ".htm"}, BlockStart: "<!--", BlockEnd: "-->"},
	{Name: "CSS", Extensions: []string{".css"}, BlockStart: "/*", BlockEnd: "*/"},
	{Name: "Shell", Extensions: []string{".sh", ".bash", ".zsh"}, LineComment: "#"},
	{Name: "TOML", Extensions: []string{".toml"}, LineComment: "#"},
	{Name: "YAML", Extensions: []string{".yaml", ".yml"}, LineComment: "#"},
	{Name: "JSON", Extensions: []string{".json"}},
	{Name: "Markdown", Extensions: []string{".md", ".markdown"}, Prose: true},
	{Name: "Plain Text", Extensions: []string{".txt", ".text"}, Prose: true},
	{Name: "Makefile", Extensions: []string{".mk", ".makefile"}, LineComment: "#"},
}

// Registry 管理语言描述与后缀映射。
type Registry struct {
	languages     []*Language
	languageByExt map[string]*Language
}

// NewRegistry 创建并注册全部内置语言。
func NewRegistry() *Registry {
	registry := &Registry{
		languages:     builtin,
		languageByExt: make(map[string]*Language),
	}

	for _, language := range builtin {
		for _, ext := range language.Extensions {
			registry.languageByExt[strings.ToLower(ext)] = language
		}
	}

	return registry
}

// LanguageForFile 根据文件后缀查找语言描述。
// 匹配大小写不敏感；无后缀或未知后缀返回 (nil, false)，
// 由调用方决定归入 Other 桶还是直接拒绝。
func (r *Registry) LanguageForFile(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	language, ok := r.languageByExt[ext]
	return language, ok
}

// Languages 返回已注册语言清单，按名称排序。
func (r *Registry) Languages() []*Language {
	result := append([]*Language(nil), r.languages...)
	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ExtensionsForLanguage 返回指定语言对应的全部后缀，按字典序排序。
func (r *Registry) ExtensionsForLanguage(language string) []string {
	for _, item := range r.languages {
		if item.Name == language {
			extensions := append([]string(nil), item.Extensions...)
			sort.Strings(extensions)
			return extensions
		}
	}
	return nil
}
