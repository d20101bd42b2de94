//go:build windows

package scan

import "os"

// Windows 没有 access(2)：能打开目录句柄即视为可读。
var accessFunc = func(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	return f.Close()
}
