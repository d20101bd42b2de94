package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/John-Robertt/deskclean/internal/app/planner"
	"github.com/John-Robertt/deskclean/internal/config"
	"github.com/John-Robertt/deskclean/internal/domain"
)

// presenter 负责把计划/结果展示给用户。
//
// table 模式：人类可读内容写 stdout。
// json/yaml 模式：stdout 只输出最终的一份 RunReport，提示信息写 stderr。
type presenter struct {
	out    io.Writer
	errOut io.Writer
	format string

	title *color.Color
	ok    *color.Color
	bad   *color.Color
}

func newPresenter(out, errOut io.Writer, format string) *presenter {
	p := &presenter{
		out:    out,
		errOut: errOut,
		format: format,
		title:  color.New(color.Bold),
		ok:     color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
	}
	// 颜色只在 table 模式且 stdout 为终端时启用。
	if !p.table() || !isTerminal(out) {
		p.title.DisableColor()
		p.ok.DisableColor()
		p.bad.DisableColor()
	}
	return p
}

func (p *presenter) table() bool { return p.format == config.FormatTable }

// textOut 返回提示信息应写入的位置。
func (p *presenter) textOut() io.Writer {
	if p.table() {
		return p.out
	}
	return p.errOut
}

func (p *presenter) notice(format string, args ...any) {
	fmt.Fprintf(p.textOut(), format+"\n", args...)
}

func (p *presenter) plan(base string, plan domain.Plan) {
	if !p.table() {
		return
	}
	w := p.out
	p.title.Fprintln(w, "整理计划")
	fmt.Fprintf(w, "目录：%s\n", base)
	fmt.Fprintf(w, "待整理文件：%d 个\n", plan.TotalFiles)
	writeLine(w, planTable(plan))
}

func (p *presenter) result(res domain.Result) {
	if !p.table() {
		return
	}
	w := p.out
	if len(res.Errors) == 0 {
		p.ok.Fprintln(w, "整理完成")
	} else {
		p.bad.Fprintln(w, "整理完成（部分失败）")
	}
	fmt.Fprintf(w, "已移动：%d 个文件，用时 %.2f 秒\n", res.TotalMoved, res.Duration.Seconds())
	writeLine(w, resultTable(res))

	if len(res.Errors) == 0 {
		fmt.Fprintln(w, "没有错误。")
		return
	}
	p.bad.Fprintf(w, "错误（%d）：\n", len(res.Errors))
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}

// report 在 json/yaml 模式下输出唯一的一份 RunReport。
func (p *presenter) report(rr domain.RunReport) error {
	switch p.format {
	case config.FormatJSON:
		return writeJSON(p.out, rr)
	case config.FormatYAML:
		return writeYAML(p.out, rr)
	default:
		return nil
	}
}

func planTable(plan domain.Plan) string {
	counts := plan.Counts()
	sizes := plan.Bytes()

	rows := make([][]string, 0, len(plan.FoldersToCreate))
	var total int64
	for _, c := range plan.FoldersToCreate {
		total += sizes[c]
		rows = append(rows, []string{
			c.String(),
			strconv.Itoa(counts[c]),
			humanize.Bytes(uint64(sizes[c])),
		})
	}
	return renderTable(
		[]string{"分类", "文件数", "大小"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
		"合计", strconv.Itoa(plan.TotalFiles), humanize.Bytes(uint64(total)),
	)
}

func resultTable(res domain.Result) string {
	rows := make([][]string, 0, len(res.MovedByCategory))
	for _, c := range sortedCategories(res.MovedByCategory) {
		rows = append(rows, []string{c.String(), strconv.Itoa(res.MovedByCategory[c])})
	}
	return renderTable(
		[]string{"分类", "已移动"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
		"合计", strconv.Itoa(res.TotalMoved),
	)
}

func sortedCategories(m map[domain.Category]int) []domain.Category {
	out := make([]domain.Category, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	planner.SortCategories(out)
	return out
}
