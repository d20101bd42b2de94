// Package mover 负责创建分类目录、处理重名并移动文件。
//
// 所有失败都通过返回值（bool / domain.MoveOutcome）报告，不会 panic，也不会向上抛错。
package mover

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/deskclean/internal/domain"
	"github.com/John-Robertt/deskclean/internal/infra/fsx"
	"github.com/John-Robertt/deskclean/internal/logging"
)

// 可替换，便于测试模拟各种移动失败。
var moveFunc = fsx.MoveFile

// 目标在探测后被别人占用时，最多重新探测的轮数。
const maxCollisionRounds = 16

// Mover 的零值可用（不输出日志）。
type Mover struct {
	Logger *slog.Logger
}

func (m Mover) log() *slog.Logger {
	if m.Logger == nil {
		return logging.NewNop()
	}
	return m.Logger
}

// EnsureFolder 在 base 下创建分类目录；已存在视为成功。
func (m Mover) EnsureFolder(base string, c domain.Category) bool {
	return m.EnsureFolderErr(base, c) == nil
}

// EnsureFolderErr 与 EnsureFolder 相同，但返回失败原因（供编排层拼接错误信息）。
func (m Mover) EnsureFolderErr(base string, c domain.Category) error {
	dir := filepath.Join(base, string(c))
	if err := fsx.EnsureDir(dir); err != nil {
		m.log().Warn("创建分类目录失败", slog.String("dir", dir), slog.Any("error", err))
		return err
	}
	m.log().Debug("分类目录就绪", slog.String("dir", dir))
	return nil
}

// ResolveCollision 返回一个当前未被占用的目标路径。
//
// candidate 不存在时原样返回；否则依次尝试 "<stem>_1<ext>"、"<stem>_2<ext>"……
// 若某个路径无法判断是否存在（例如父目录无权限），停止探测并返回该路径：
// 随后的移动会失败并被报告，而不是冒险覆盖。
func ResolveCollision(candidate string) string {
	if ok, err := fsx.Exists(candidate); err != nil || !ok {
		return candidate
	}

	dir := filepath.Dir(candidate)
	name := filepath.Base(candidate)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// ".bashrc" 这类名字整体视为 stem。
		stem, ext = name, ""
	}

	for n := 1; ; n++ {
		p := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if ok, err := fsx.Exists(p); err != nil || !ok {
			return p
		}
	}
}

// Move 把 src 移动到 destFolder 下（保留文件名；重名时追加数字后缀）。
//
// 底层移动不覆盖已有文件；若目标在 ResolveCollision 之后才出现，重新探测一个新名字再试。
func (m Mover) Move(src, destFolder string) domain.MoveOutcome {
	naive := filepath.Join(destFolder, filepath.Base(src))

	var dst string
	var err error
	for round := 1; ; round++ {
		dst = ResolveCollision(naive)
		err = moveFunc(src, dst)
		if err == nil || !fsx.IsDestinationExists(err) || round >= maxCollisionRounds {
			break
		}
		m.log().Debug("目标被占用，重新探测", slog.String("dst", dst), slog.Int("round", round))
	}

	if err != nil {
		m.log().Warn("移动文件失败", slog.String("src", src), slog.String("dst", dst), slog.Any("error", err))
		return domain.MoveOutcome{
			Success:     false,
			Source:      src,
			Destination: naive,
			Error:       describe(err),
		}
	}

	m.log().Debug("已移动文件", slog.String("src", src), slog.String("dst", dst))
	return domain.MoveOutcome{
		Success:     true,
		Source:      src,
		Destination: dst,
	}
}
