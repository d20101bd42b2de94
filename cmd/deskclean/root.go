package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/John-Robertt/deskclean/internal/config"
)

// 由 -ldflags "-X main.version=..." 注入。
var (
	version = "dev"
	commit  = ""
)

type rootOptions struct {
	configPath string
	yes        bool
	dryRun     bool
	format     string
	report     string
	logLevel   string
	logFormat  string
}

// cliArgs 把 flag 值与“是否显式指定”一起交给 config 合并。
func (o *rootOptions) cliArgs(fs *pflag.FlagSet, args []string) config.CLIArgs {
	cli := config.CLIArgs{
		ConfigPath: o.configPath,

		AssumeYes:    o.yes,
		AssumeYesSet: fs.Changed("yes"),

		DryRun:    o.dryRun,
		DryRunSet: fs.Changed("dry-run"),

		Format:    o.format,
		FormatSet: fs.Changed("format"),

		Report:    o.report,
		ReportSet: fs.Changed("report"),

		LogLevel:    o.logLevel,
		LogLevelSet: fs.Changed("log-level"),

		LogFormat:    o.logFormat,
		LogFormatSet: fs.Changed("log-format"),
	}
	if len(args) > 0 {
		cli.Path = args[0]
	}
	return cli
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "deskclean [path]",
		Short: "按文件类型整理目录（默认整理桌面）",
		Long: `deskclean 扫描目录顶层的文件，按扩展名归入 Documents / Images / Videos /
PDF / ZIPs / Installers / Others 七个子目录。

执行前会展示计划并请求确认；重名文件自动追加 _1、_2 … 后缀，不会覆盖已有文件。
子目录、隐藏文件与 desktop.ini 保持不动。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return withExitCode(exitUsage, fmt.Errorf("最多只能指定一个目录，实际 %d 个", len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, opts.cliArgs(cmd.Flags(), args))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "配置文件路径（默认 ~/.config/deskclean/config.toml）")
	pf.StringVar(&opts.format, "format", config.FormatAuto, "输出格式：auto|table|json|yaml")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "日志级别：debug|info|warn|error")
	pf.StringVar(&opts.logFormat, "log-format", "console", "日志格式：console|json")

	f := rootCmd.Flags()
	f.BoolVarP(&opts.yes, "yes", "y", false, "跳过确认，直接执行")
	f.BoolVar(&opts.dryRun, "dry-run", false, "只展示计划，不创建目录也不移动文件")
	f.StringVar(&opts.report, "report", "", "把本次运行的报告写入该文件（.yaml/.yml 为 YAML，其余为 JSON）")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(exitUsage, err)
	})

	rootCmd.AddCommand(newCategoriesCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "deskclean %s (%s)\n", version, commit)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deskclean %s\n", version)
			return nil
		},
	}
}
