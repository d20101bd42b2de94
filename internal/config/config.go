// Package config 负责发现、解析 deskclean.toml 并与 CLI 参数合并为最终配置。
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/deskclean/internal/infra/fsx"
	"github.com/John-Robertt/deskclean/internal/logging"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	// ErrCodeNotFound 表示 --config 指定的文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

// 输出格式。
const (
	FormatAuto  = "auto"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// 可替换，便于测试把默认配置位置指到临时目录。
var homeDirFunc = os.UserHomeDir

// CLIArgs 保存命令行参数以及“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --dry-run=false 必须能覆盖 dry_run = true。
type CLIArgs struct {
	ConfigPath string
	Path       string

	AssumeYes    bool
	AssumeYesSet bool

	DryRun    bool
	DryRunSet bool

	Format    string
	FormatSet bool

	Report    string
	ReportSet bool

	LogLevel    string
	LogLevelSet bool

	LogFormat    string
	LogFormatSet bool
}

// FileConfig 对应 config.toml 的解析结构。
type FileConfig struct {
	Path      string  `toml:"path"`
	AssumeYes *bool   `toml:"assume_yes"`
	DryRun    *bool   `toml:"dry_run"`
	Format    string  `toml:"format"`
	Report    string  `toml:"report"`
	Logging   Logging `toml:"logging"`
}

// Logging 对应 [logging] 段。
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// EffectiveConfig 是合并并规范化后的最终配置。
//
// Path 为空表示“使用桌面目录”（由调用方通过 scan.LocateDesktop 决定）。
type EffectiveConfig struct {
	ConfigPath   string
	ConfigLoaded bool

	Path      string
	AssumeYes bool
	DryRun    bool
	Format    string
	Report    string

	LogLevel  string
	LogFormat string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// DefaultConfigPath 返回默认配置文件位置（~/.config/deskclean/config.toml）。
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/deskclean/config.toml", "")
}

// ExpandPath 对外暴露路径展开规则（~ 与相对路径以 cwd 为基准）。
func ExpandPath(p string) (string, error) {
	return expandPath(p, "")
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则：
// 1) --config 给出：文件必须存在，否则 config_not_found
// 2) 未给出：读取默认位置（可选，不存在不报错）
//
// 覆盖优先级：CLI 显式参数 > 配置文件 > 内置默认值。
// 相对路径以 cwd 为基准。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var cfgPath string
	required := strings.TrimSpace(cli.ConfigPath) != ""
	if required {
		cfgPath, err = expandPath(cli.ConfigPath, cwdAbs)
	} else {
		cfgPath, err = DefaultConfigPath()
	}
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cli.ConfigPath, Err: err}
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if required && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}

	eff, err := merge(cwdAbs, cli, fc)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	eff.ConfigPath = cfgPath
	eff.ConfigLoaded = exists
	return eff, nil
}

func merge(cwd string, cli CLIArgs, fc FileConfig) (EffectiveConfig, error) {
	var eff EffectiveConfig

	// path：CLI > config > 空（桌面）
	rawPath := fc.Path
	if strings.TrimSpace(cli.Path) != "" {
		rawPath = cli.Path
	}
	p, err := expandPath(rawPath, cwd)
	if err != nil {
		return EffectiveConfig{}, fmt.Errorf("path：%w", err)
	}
	eff.Path = p

	if cli.AssumeYesSet {
		eff.AssumeYes = cli.AssumeYes
	} else if fc.AssumeYes != nil {
		eff.AssumeYes = *fc.AssumeYes
	}

	if cli.DryRunSet {
		eff.DryRun = cli.DryRun
	} else if fc.DryRun != nil {
		eff.DryRun = *fc.DryRun
	}

	eff.Format = pick(cli.FormatSet, cli.Format, fc.Format, FormatAuto)
	eff.Format = strings.ToLower(eff.Format)
	if err := ValidateFormat(eff.Format); err != nil {
		return EffectiveConfig{}, err
	}

	report := pick(cli.ReportSet, cli.Report, fc.Report, "")
	if eff.Report, err = expandPath(report, cwd); err != nil {
		return EffectiveConfig{}, fmt.Errorf("report：%w", err)
	}

	eff.LogLevel = strings.ToLower(pick(cli.LogLevelSet, cli.LogLevel, fc.Logging.Level, "warn"))
	if _, err := logging.ParseLevel(eff.LogLevel); err != nil {
		return EffectiveConfig{}, fmt.Errorf("logging.level：%w", err)
	}
	eff.LogFormat = strings.ToLower(pick(cli.LogFormatSet, cli.LogFormat, fc.Logging.Format, "console"))
	if eff.LogFormat != "console" && eff.LogFormat != "json" {
		return EffectiveConfig{}, fmt.Errorf("logging.format 只能是 console 或 json，实际是 %q", eff.LogFormat)
	}

	return eff, nil
}

// ValidateFormat 校验输出格式。
func ValidateFormat(f string) error {
	switch f {
	case FormatAuto, FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("format 只能是 auto|table|json|yaml，实际是 %q", f)
	}
}

// pick 实现 “CLI 显式值 > 配置值 > 默认值”。
func pick(cliSet bool, cliVal, fileVal, def string) string {
	if cliSet {
		return strings.TrimSpace(cliVal)
	}
	if v := strings.TrimSpace(fileVal); v != "" {
		return v
	}
	return def
}

// expandPath 展开 ~ 并以 base 为基准转成 clean + absolute；空串原样返回。
func expandPath(p, base string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := homeDirFunc()
		if err != nil {
			return "", fmt.Errorf("无法确定 home 目录：%w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p, nil
	}
	if base == "" {
		return filepath.Abs(p)
	}
	return filepath.Clean(filepath.Join(base, p)), nil
}

// readFileConfig 读取并解析 TOML 配置文件（未知字段报错，避免拼写错误被静默忽略）。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}

// SampleConfig 返回带注释的示例配置。
func SampleConfig() string { return sampleConfig }

// CreateSample 把示例配置写到 path；文件已存在且 overwrite=false 时返回错误。
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if ok, err := fsx.Exists(path); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("配置文件已存在：%s（使用 --overwrite 覆盖）", path)
		}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败：%w", err)
	}
	return fsx.WriteFileAtomic(dir, filepath.Base(path), []byte(sampleConfig))
}
