// Package run 把扫描、规划与移动串起来，产出一次整理的汇总结果。
package run

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/John-Robertt/deskclean/internal/app/planner"
	"github.com/John-Robertt/deskclean/internal/domain"
	"github.com/John-Robertt/deskclean/internal/logging"
	"github.com/John-Robertt/deskclean/internal/mover"
	"github.com/John-Robertt/deskclean/internal/scan"
)

// 取消后剩余文件统一使用的原因。
const reasonCancelled = "已取消"

// 可替换，便于测试模拟目录创建失败。
var ensureFolderFunc = func(m mover.Mover, base string, c domain.Category) error {
	return m.EnsureFolderErr(base, c)
}

// Prepare 扫描 dir 并生成计划，返回 dir 的绝对路径。
//
// 只读：不会创建目录或移动文件。扫描错误原样返回（DirectoryNotFound / AccessDenied）。
func Prepare(ctx context.Context, dir string) (string, domain.Plan, error) {
	log := logging.FromContext(ctx)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", domain.Plan{}, err
	}

	started := time.Now()
	files, err := scan.Scanner{Logger: log}.Scan(abs)
	if err != nil {
		return abs, domain.Plan{}, err
	}
	plan := planner.BuildPlan(files)

	log.Info("扫描完成",
		slog.String("path", abs),
		slog.Int("files", plan.TotalFiles),
		slog.Int("categories", len(plan.FoldersToCreate)),
		slog.Duration("elapsed", time.Since(started)),
	)
	return abs, plan, nil
}

// ExecutePlan 执行计划并返回汇总结果。
// 单个目录或文件失败只记入 Result.Errors，不会中断整体流程。
func ExecutePlan(ctx context.Context, plan domain.Plan, base string) domain.Result {
	return ExecutePlanWithObserver(ctx, plan, base, nil)
}

// ExecutePlanWithObserver 与 ExecutePlan 相同，但允许传入 Observer 以输出进度（由上层决定是否启用）。
func ExecutePlanWithObserver(ctx context.Context, plan domain.Plan, base string, obs Observer) domain.Result {
	started := time.Now()
	log := logging.FromContext(ctx)
	m := mover.Mover{Logger: log}

	if obs != nil {
		obs.OnStart(plan, base)
	}

	res := domain.Result{
		MovedByCategory: make(map[domain.Category]int, len(plan.FoldersToCreate)),
		Errors:          make([]string, 0),
	}

	// 1) 目录：失败只记录，不跳过该分类下的文件（随后的移动会各自失败并被记录）。
	// 已取消则不再创建新目录。
	for _, c := range plan.FoldersToCreate {
		if ctx.Err() != nil {
			break
		}
		err := ensureFolderFunc(m, base, c)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("创建分类目录 %s 失败：%v", c, err))
		}
		if obs != nil {
			obs.OnFolderDone(c, err)
		}
	}

	// 2) 文件：按 FoldersToCreate 的顺序，分组内按记录顺序。
	idx := 0
	for _, c := range plan.FoldersToCreate {
		res.MovedByCategory[c] = 0
		dest := filepath.Join(base, string(c))

		for _, f := range plan.FilesByCategory[c] {
			idx++

			var out domain.MoveOutcome
			if ctx.Err() != nil {
				out = domain.MoveOutcome{
					Source:      f.AbsPath,
					Destination: filepath.Join(dest, filepath.Base(f.AbsPath)),
					Error:       reasonCancelled,
				}
			} else {
				out = m.Move(f.AbsPath, dest)
			}

			if out.Success {
				res.TotalMoved++
				res.MovedByCategory[c]++
			} else {
				res.Errors = append(res.Errors, fmt.Sprintf("移动 %s 失败：%s", displayName(f), out.Error))
			}
			if obs != nil {
				obs.OnFileDone(idx, plan.TotalFiles, c, out)
			}
		}
	}

	res.Duration = time.Since(started)

	log.Info("整理完成",
		slog.Int("moved", res.TotalMoved),
		slog.Int("errors", len(res.Errors)),
		slog.Duration("elapsed", res.Duration),
	)
	if obs != nil {
		obs.OnFinish(res)
	}
	return res
}

func displayName(f domain.FileRecord) string {
	if f.Name != "" {
		return f.Name
	}
	return filepath.Base(f.AbsPath)
}
