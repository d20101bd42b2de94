//go:build !windows

package scan

import "strings"

// IsHidden 在类 Unix 平台上按命名约定判断：以 '.' 开头即为隐藏。
func IsHidden(path, name string) bool {
	return strings.HasPrefix(name, ".")
}
