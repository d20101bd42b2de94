package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/deskclean/internal/categorize"
	"github.com/John-Robertt/deskclean/internal/config"
	"github.com/John-Robertt/deskclean/internal/domain"
)

// categoryView 是 categories 子命令的机器可读输出。
type categoryView struct {
	Category   domain.Category `json:"category" yaml:"category"`
	Extensions []string        `json:"extensions" yaml:"extensions"`
}

func categoryViews() []categoryView {
	all := domain.AllCategories()
	out := make([]categoryView, 0, len(all))
	for _, c := range all {
		exts := categorize.Extensions(c)
		if exts == nil {
			exts = []string{}
		}
		out = append(out, categoryView{Category: c, Extensions: exts})
	}
	return out
}

func newCategoriesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "列出分类与扩展名对应关系",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(opts.format))
			if err := config.ValidateFormat(format); err != nil {
				return withExitCode(exitUsage, err)
			}
			out := cmd.OutOrStdout()
			views := categoryViews()

			switch resolveFormat(format, out) {
			case config.FormatJSON:
				return writeJSON(out, views)
			case config.FormatYAML:
				return writeYAML(out, views)
			}

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				exts := strings.Join(v.Extensions, " ")
				if v.Category == domain.CategoryOthers {
					exts = "（其余所有扩展名，以及无扩展名的文件）"
				}
				rows = append(rows, []string{v.Category.String(), exts})
			}
			writeLine(out, renderTable([]string{"分类", "扩展名"}, rows, nil))
			return nil
		},
	}
}
