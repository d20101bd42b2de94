package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/John-Robertt/deskclean/internal/app/run"
	"github.com/John-Robertt/deskclean/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的进度输出。
//
// - 所有过程信息写到 stderr，不污染 stdout 的 JSON/YAML 输出
// - 事件驱动：run 层只发事件，CLI 决定如何展示
// - 失败条目逐行打印在进度条上方，成功条目只推进进度条
type progressUI struct {
	w   io.Writer
	bar *progressbar.ProgressBar

	startedAt time.Time
	total     int
	ok        int
	fail      int
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w}
}

// pickProgressWriter 只在 stderr 为终端时启用进度输出。
func pickProgressWriter(stderr io.Writer) (io.Writer, bool) {
	if isTerminal(stderr) {
		return stderr, true
	}
	return nil, false
}

func (p *progressUI) OnStart(plan domain.Plan, base string) {
	p.startedAt = time.Now()
	p.total = plan.TotalFiles

	fmt.Fprintf(p.w, "[%s] 开始整理 %s（%d 个文件，%d 个分类）\n",
		p.startedAt.Format("15:04:05"), base, plan.TotalFiles, len(plan.FoldersToCreate),
	)
	if p.total == 0 {
		return
	}
	p.bar = progressbar.NewOptions(p.total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("移动中"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressUI) OnFolderDone(c domain.Category, err error) {
	if err == nil {
		return
	}
	p.printAboveBar("目录 %s FAIL: %s", c, truncate(err.Error(), 160))
}

func (p *progressUI) OnFileDone(idx, total int, c domain.Category, out domain.MoveOutcome) {
	if out.Success {
		p.ok++
	} else {
		p.fail++
		p.printAboveBar("[%d/%d] %s -> %s FAIL: %s", idx, total, filepath.Base(out.Source), c, truncate(out.Error, 160))
	}
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progressUI) OnFinish(res domain.Result) {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
	fmt.Fprintf(p.w, "完成：moved=%d failed=%d errors=%d (%s)\n",
		res.TotalMoved, p.fail, len(res.Errors), formatShortDuration(time.Since(p.startedAt)),
	)
}

// printAboveBar 先清掉当前进度条行，打印一行后由下一次 Add 重新绘制进度条。
func (p *progressUI) printAboveBar(format string, args ...any) {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// truncate 按字符（而不是字节）截断，避免切坏中文。
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
