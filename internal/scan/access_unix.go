//go:build unix

package scan

import "golang.org/x/sys/unix"

// accessFunc 在遍历前显式检查读权限（可替换，便于测试模拟）。
var accessFunc = func(dir string) error {
	return unix.Access(dir, unix.R_OK)
}
