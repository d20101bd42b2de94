//go:build windows

package scan

import "golang.org/x/sys/windows"

// IsHidden 读取 FILE_ATTRIBUTE_HIDDEN 属性位。
// 读取失败（例如文件被并发删除）时按“非隐藏”处理，不排除。
func IsHidden(path, name string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
