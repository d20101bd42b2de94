//go:build unix

package fsx

import (
	"errors"
	"io/fs"
	"os"
)

// linkRename 用 link(2) 占住 dst（已存在则 EEXIST），再删掉 src。
//
// 符号链接不走这条路：部分系统的 link 会跟随链接，得到的是目标文件的硬链接。
// 不支持硬链接的文件系统（FAT/exFAT、部分网络盘）退化为 checkedRename。
func linkRename(src, dst string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	if fi.Mode()&fs.ModeSymlink != 0 {
		return checkedRename(src, dst)
	}

	if err := os.Link(src, dst); err != nil {
		if isEXDEV(err) || errors.Is(err, fs.ErrExist) || errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return checkedRename(src, dst)
	}
	if err := removeFunc(src); err != nil {
		_ = os.Remove(dst)
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	return nil
}
