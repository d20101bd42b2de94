package mover

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/John-Robertt/deskclean/internal/infra/fsx"
)

// describe 把底层错误转成面向用户的原因描述（保留原始错误文本便于排查）。
func describe(err error) string {
	var reason string
	switch {
	case errors.Is(err, fs.ErrExist):
		reason = "目标文件已存在"
	case errors.Is(err, fs.ErrNotExist):
		reason = "源文件或目标目录不存在"
	case errors.Is(err, fs.ErrPermission):
		reason = "权限不足"
	case errors.Is(err, syscall.ENAMETOOLONG):
		reason = "文件名过长"
	case fsx.IsCrossDevice(err):
		reason = "跨盘移动失败"
	case fsx.IsPathTypeConflict(err):
		reason = "目标路径类型冲突"
	default:
		return err.Error()
	}
	return reason + "（" + err.Error() + "）"
}
