//go:build unix

package fsx

import (
	"errors"

	"golang.org/x/sys/unix"
)

// os.Rename 返回 *os.LinkError；errors.Is 会沿 Unwrap 找到底层 errno。
func isEXDEV(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
