//go:build windows

package fsx

import (
	"os"

	"golang.org/x/sys/windows"
)

// 不带 MOVEFILE_REPLACE_EXISTING：目标已存在时返回 ERROR_ALREADY_EXISTS。
// 不带 MOVEFILE_COPY_ALLOWED：跨卷时返回 ERROR_NOT_SAME_DEVICE，交给 MoveFile 的复制兜底。
func renameNoReplace(src, dst string) error {
	from, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	to, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	if err := windows.MoveFileEx(from, to, 0); err != nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	return nil
}
