package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/deskclean/internal/config"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "配置文件工具",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(opts))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "生成示例配置文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			var err error
			if target == "" {
				target, err = config.DefaultConfigPath()
			} else {
				target, err = config.ExpandPath(target)
			}
			if err != nil {
				return fmt.Errorf("确定配置文件路径失败：%w", err)
			}

			if err := config.CreateSample(target, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已写入示例配置：%s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "配置文件写入位置")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "已存在时覆盖")
	return cmd
}

// effectiveView 是 config show 的输出结构（TOML 键与配置文件一致）。
type effectiveView struct {
	Path      string `toml:"path"`
	AssumeYes bool   `toml:"assume_yes"`
	DryRun    bool   `toml:"dry_run"`
	Format    string `toml:"format"`
	Report    string `toml:"report"`
	Logging   struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"logging"`
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "显示合并后的生效配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("读取当前目录失败：%w", err)
			}
			eff, err := config.LoadEffective(cwd, opts.cliArgs(cmd.Flags(), nil))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if eff.ConfigLoaded {
				fmt.Fprintf(out, "# 配置文件：%s\n", eff.ConfigPath)
			} else {
				fmt.Fprintf(out, "# 配置文件：%s（不存在，使用默认值）\n", eff.ConfigPath)
			}

			var v effectiveView
			v.Path = eff.Path
			v.AssumeYes = eff.AssumeYes
			v.DryRun = eff.DryRun
			v.Format = eff.Format
			v.Report = eff.Report
			v.Logging.Level = eff.LogLevel
			v.Logging.Format = eff.LogFormat

			b, err := toml.Marshal(v)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		},
	}
}
