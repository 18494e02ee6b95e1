// Package model 定义 goloc 的核心数据模型。
// 这些结构会被计数器、聚合层、远程流水线和输出层共同使用。
package model

// LineStats 表示一组行级统计值。
//
// 注意：
// - 不变量：Total == Code + Comments + Blank
// - 同一行既有代码又有尾注释时只计入 Code，不做双重统计
// - Blank 仅用于去除空白字符后为空的行
type LineStats struct {
	Total    int64 `json:"total"`
	Code     int64 `json:"code"`
	Comments int64 `json:"comments"`
	Blank    int64 `json:"blank"`
}

// Add 将另一个统计结果叠加到当前对象。
// 逐字段相加满足交换律和结合律，零值即单位元。
func (s *LineStats) Add(other LineStats) {
	s.Total += other.Total
	s.Code += other.Code
	s.Comments += other.Comments
	s.Blank += other.Blank
}

// LanguageStats 表示某个语言的聚合结果。
type LanguageStats struct {
	Files int64     `json:"files"`
	Stats LineStats `json:"stats"`
}

// Aggregate 是一次统计的完整聚合结果。
// 它同时充当并发执行时的“部分结果”单元：
// 本地 fork/join 的每个分支和远程 worker 各自持有一个私有 Aggregate，
// 最后通过 Merge 归并，归并顺序和分组方式不影响最终结果。
type Aggregate struct {
	Languages map[string]*LanguageStats `json:"languages"`
	Total     LineStats                 `json:"total"`
	Files     int64                     `json:"files"`
}

// NewAggregate 创建空聚合结果，作为所有归并的种子值。
func NewAggregate() *Aggregate {
	return &Aggregate{
		Languages: make(map[string]*LanguageStats),
	}
}

// AddFile 把单个文件的统计值累加到指定语言和全局总计中。
func (a *Aggregate) AddFile(language string, stats LineStats) {
	slot, ok := a.Languages[language]
	if !ok {
		slot = &LanguageStats{}
		a.Languages[language] = slot
	}

	slot.Files++
	slot.Stats.Add(stats)
	a.Total.Add(stats)
	a.Files++
}

// Merge 把另一个聚合结果并入当前对象。
// 该操作满足交换律与结合律，可以安全用于任意并行归约策略。
func (a *Aggregate) Merge(other *Aggregate) {
	if other == nil {
		return
	}

	for language, stats := range other.Languages {
		slot, ok := a.Languages[language]
		if !ok {
			slot = &LanguageStats{}
			a.Languages[language] = slot
		}
		slot.Files += stats.Files
		slot.Stats.Add(stats.Stats)
	}

	a.Total.Add(other.Total)
	a.Files += other.Files
}
