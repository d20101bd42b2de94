package planner

import (
	"sort"

	"github.com/John-Robertt/deskclean/internal/categorize"
	"github.com/John-Robertt/deskclean/internal/domain"
)

// BuildPlan 按分类把扫描结果分组，生成确定性的执行计划（不做任何写入/移动）。
//
// - 只有分到文件的分类才会出现（不会物化空分组）
// - FoldersToCreate 与分组键集合一致，按分类规范顺序排列
// - 分组内保持输入顺序
func BuildPlan(files []domain.FileRecord) domain.Plan {
	groups := make(map[domain.Category][]domain.FileRecord, 8)
	for _, f := range files {
		c := categorize.Of(categoryKey(f))
		groups[c] = append(groups[c], f)
	}

	folders := make([]domain.Category, 0, len(groups))
	for c := range groups {
		folders = append(folders, c)
	}
	SortCategories(folders)

	return domain.Plan{
		FilesByCategory: groups,
		FoldersToCreate: folders,
		TotalFiles:      len(files),
	}
}

// SortCategories 按分类规范顺序排序（未知分类排在最后，彼此按字典序）。
func SortCategories(cs []domain.Category) {
	sort.Slice(cs, func(i, j int) bool {
		ri, rj := cs[i].Rank(), cs[j].Rank()
		if ri < 0 && rj < 0 {
			return cs[i] < cs[j]
		}
		if ri < 0 {
			return false
		}
		if rj < 0 {
			return true
		}
		return ri < rj
	})
}

// 扫描阶段已经填好 Ext；手工构造的记录可能只有 Name/AbsPath，这里兜底。
// 兜底时先按文件名取扩展名，避免把名为 ".pdf" 的文件当成裸扩展名。
func categoryKey(f domain.FileRecord) string {
	if f.Ext != "" {
		return f.Ext
	}
	if f.Name != "" {
		return categorize.Extension(f.Name)
	}
	return categorize.Extension(f.AbsPath)
}
