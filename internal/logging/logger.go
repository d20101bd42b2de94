// Package logging 负责组装 slog logger（console/json 两种输出）。
//
// 约定：核心包只接收 *slog.Logger，nil 视为不输出；run id 等上下文字段通过 context 传递。
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FieldRunID 是 run id 的统一日志键。
const FieldRunID = "run_id"

// Options 描述 logger 的构造参数。
type Options struct {
	Level  string    // debug|info|warn|error，默认 warn
	Format string    // console|json，默认 console
	Output io.Writer // 默认 stderr（stdout 留给报告输出）
}

// New 按 opts 构造 slog logger。
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	addSource := level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       levelVar,
			AddSource:   addSource,
			ReplaceAttr: replaceAttr,
		})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       levelVar,
			AddSource:   addSource,
			ReplaceAttr: replaceAttr,
		})), nil
	default:
		return nil, fmt.Errorf("log format 只能是 console 或 json，实际是 %q", opts.Format)
	}
}

// NewNop 返回丢弃所有输出的 logger（测试与无法失败的装配代码使用）。
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel 解析日志级别；空串按 warn 处理。
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log level 只能是 debug|info|warn|error，实际是 %q", level)
	}
}

type ctxKey struct{}

// IntoContext 把 logger 挂到 ctx 上。
func IntoContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext 取出 ctx 上的 logger；没有则返回 nop logger（永不为 nil）。
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return NewNop()
}

// WithRunID 返回带 run_id 字段的 logger。
func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if strings.TrimSpace(runID) == "" {
		return logger
	}
	return logger.With(slog.String(FieldRunID, runID))
}

func replaceAttr(groups []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}
