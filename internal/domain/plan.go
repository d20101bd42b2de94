package domain

// Plan 是一次整理的执行计划（只描述分组，不触碰文件系统）。
//
// 不变量（由 planner.BuildPlan 保证）：
// - 各分组长度之和 == TotalFiles
// - FoldersToCreate 的集合 == FilesByCategory 的键集合，且按 Category 规范顺序排列
// - 没有文件的分类不会出现（不存在空分组）
type Plan struct {
	FilesByCategory map[Category][]FileRecord `json:"files_by_category" yaml:"files_by_category"`
	FoldersToCreate []Category                `json:"folders_to_create" yaml:"folders_to_create"`
	TotalFiles      int                       `json:"total_files" yaml:"total_files"`
}

// Empty 表示计划里没有任何待移动文件。
func (p Plan) Empty() bool { return p.TotalFiles == 0 }

// Counts 返回每个分类的文件数（只包含计划中出现的分类）。
func (p Plan) Counts() map[Category]int {
	out := make(map[Category]int, len(p.FilesByCategory))
	for c, files := range p.FilesByCategory {
		out[c] = len(files)
	}
	return out
}

// Bytes 返回每个分类的文件总大小。
func (p Plan) Bytes() map[Category]int64 {
	out := make(map[Category]int64, len(p.FilesByCategory))
	for c, files := range p.FilesByCategory {
		var n int64
		for _, f := range files {
			n += f.Size
		}
		out[c] = n
	}
	return out
}

// PlanSummary 是 Plan 的对外精简视图（report 中不展开每个文件）。
type PlanSummary struct {
	TotalFiles      int              `json:"total_files" yaml:"total_files"`
	Counts          map[Category]int `json:"counts" yaml:"counts"`
	FoldersToCreate []Category       `json:"folders_to_create" yaml:"folders_to_create"`
}

// Summary 生成 PlanSummary；FoldersToCreate 为空时输出 []（而不是 null）。
func (p Plan) Summary() PlanSummary {
	folders := append([]Category{}, p.FoldersToCreate...)
	return PlanSummary{
		TotalFiles:      p.TotalFiles,
		Counts:          p.Counts(),
		FoldersToCreate: folders,
	}
}
