package main

import (
	"errors"

	"github.com/John-Robertt/deskclean/internal/config"
	"github.com/John-Robertt/deskclean/internal/infra/lockx"
	"github.com/John-Robertt/deskclean/internal/scan"
)

// 退出码约定。
const (
	exitOK           = 0
	exitFailed       = 1 // 有文件/目录操作失败，或其他意外错误
	exitUsage        = 2 // 参数或配置错误
	exitNotFound     = 3
	exitAccessDenied = 4
	exitLocked       = 5
)

// exitError 给 error 附带一个明确的退出码。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode 把 RunE 返回的 error 映射为进程退出码。
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	switch {
	case config.Code(err) != "":
		return exitUsage
	case errors.Is(err, scan.ErrDirectoryNotFound):
		return exitNotFound
	case errors.Is(err, scan.ErrAccessDenied):
		return exitAccessDenied
	case errors.Is(err, lockx.ErrLocked):
		return exitLocked
	default:
		return exitFailed
	}
}
