package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/deskclean/internal/app/run"
	"github.com/John-Robertt/deskclean/internal/config"
	"github.com/John-Robertt/deskclean/internal/domain"
	"github.com/John-Robertt/deskclean/internal/infra/lockx"
	"github.com/John-Robertt/deskclean/internal/logging"
	"github.com/John-Robertt/deskclean/internal/scan"
)

// 可替换，便于测试把“桌面”指到临时目录。
var locateDesktopFunc = scan.LocateDesktop

// runOrganize 执行完整流程：扫描 -> 计划 -> 确认 -> 执行 -> 汇总。
func runOrganize(cmd *cobra.Command, cli config.CLIArgs) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("读取当前目录失败：%w", err)
	}
	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: eff.LogLevel, Format: eff.LogFormat, Output: stderr})
	if err != nil {
		return withExitCode(exitUsage, err)
	}
	runID := uuid.NewString()
	logger = logging.WithRunID(logger, runID)
	ctx = logging.IntoContext(ctx, logger)
	if eff.ConfigLoaded {
		logger.Debug("已加载配置文件", slog.String("path", eff.ConfigPath))
	}

	dir := eff.Path
	if dir == "" {
		if dir, err = locateDesktopFunc(); err != nil {
			return err
		}
	}

	lock, err := lockx.Acquire(dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("释放运行锁失败", slog.String("lock", lock.Path()), slog.Any("error", err))
		}
	}()

	p := newPresenter(stdout, stderr, resolveFormat(eff.Format, stdout))
	rr := domain.RunReport{
		RunID:     runID,
		DryRun:    eff.DryRun,
		StartedAt: time.Now(),
	}

	abs, plan, err := run.Prepare(ctx, dir)
	if err != nil {
		return err
	}
	rr.Path = abs
	rr.Plan = plan.Summary()

	if plan.Empty() {
		p.notice("没有需要整理的文件，目录已经很整洁。")
		return finish(p, eff, &rr)
	}

	p.plan(abs, plan)
	if eff.DryRun {
		p.notice("dry-run：未创建目录，也未移动任何文件。")
		return finish(p, eff, &rr)
	}

	if !eff.AssumeYes {
		ok, err := confirm(ctx, cmd.InOrStdin(), p.textOut(), "确认按以上计划整理？[yes/no] ")
		if err != nil {
			return err
		}
		if !ok {
			p.notice("已取消，未做任何修改。")
			return finish(p, eff, &rr)
		}
	}
	// 在确认提示处按下 Ctrl-C：什么都不做，正常收尾。
	if ctx.Err() != nil {
		p.notice("已取消，未做任何修改。")
		return finish(p, eff, &rr)
	}
	rr.Confirmed = true

	var obs run.Observer
	if w, ok := pickProgressWriter(stderr); ok {
		obs = newProgressUI(w)
	}
	res := run.ExecutePlanWithObserver(ctx, plan, abs, obs)
	rr.Result = &res

	if err := finish(p, eff, &rr); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := len(res.Errors); n > 0 {
		return withExitCode(exitFailed, fmt.Errorf("%d 个操作失败", n))
	}
	return nil
}

// finish 补齐 RunReport，输出结果并按需写 report 文件。
func finish(p *presenter, eff config.EffectiveConfig, rr *domain.RunReport) error {
	rr.FinishedAt = time.Now()
	rr.Finalize()

	if rr.Result != nil {
		p.result(*rr.Result)
	}
	if err := p.report(*rr); err != nil {
		return fmt.Errorf("输出报告失败：%w", err)
	}

	if eff.Report != "" {
		if err := writeReportFile(eff.Report, *rr); err != nil {
			return fmt.Errorf("写入报告文件失败：%w", err)
		}
		p.notice("报告已写入：%s", eff.Report)
	}
	return nil
}
