package run

import (
	"github.com/John-Robertt/deskclean/internal/domain"
)

// Observer 用于把执行进度从核心流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON/YAML 契约）。
// - 事件按调用顺序在同一个 goroutine 中发出。
type Observer interface {
	// OnStart 在 ExecutePlanWithObserver 开始时调用。
	OnStart(plan domain.Plan, base string)
	// OnFolderDone 在每个分类目录处理完成时调用；err 为 nil 表示目录已就绪。
	OnFolderDone(c domain.Category, err error)
	// OnFileDone 在每个文件尝试移动后调用（idx 从 1 开始）。
	OnFileDone(idx, total int, c domain.Category, out domain.MoveOutcome)
	// OnFinish 在返回 Result 之前调用。
	OnFinish(res domain.Result)
}
