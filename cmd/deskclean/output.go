package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/deskclean/internal/config"
	"github.com/John-Robertt/deskclean/internal/domain"
	"github.com/John-Robertt/deskclean/internal/infra/fsx"
)

// isTerminal 判断 w 是否为交互终端（非 *os.File 一律视为非终端）。
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// resolveFormat 把 auto 落到具体格式：终端上输出表格，否则输出 JSON。
// 非终端时 stdout 只承载一份机器可读报告。
func resolveFormat(format string, stdout io.Writer) string {
	if format != config.FormatAuto {
		return format
	}
	if isTerminal(stdout) {
		return config.FormatTable
	}
	return config.FormatJSON
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeLine(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}

// encodeReport 按 report 文件扩展名选择编码（.yaml/.yml 为 YAML，其余为 JSON）。
func encodeReport(path string, rr domain.RunReport) ([]byte, error) {
	var sb strings.Builder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := writeYAML(&sb, rr); err != nil {
			return nil, err
		}
	default:
		if err := writeJSON(&sb, rr); err != nil {
			return nil, err
		}
	}
	return []byte(sb.String()), nil
}

// writeReportFile 原子写入 report 文件（已存在则覆盖）。
func writeReportFile(path string, rr domain.RunReport) error {
	b, err := encodeReport(path, rr)
	if err != nil {
		return err
	}
	return fsx.WriteFileAtomic(filepath.Dir(path), filepath.Base(path), b)
}
