// Package lockx 提供“同一目录同时只允许一个整理进程”的跨进程锁。
package lockx

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked 表示另一个进程正在整理同一目录。
var ErrLocked = errors.New("另一个 deskclean 进程正在整理该目录")

// 可替换，便于测试把锁文件放进临时目录。
var lockDirFunc = os.TempDir

// Lock 是已持有的目录锁。
type Lock struct {
	path string
	fl   *flock.Flock
}

// Path 返回锁文件路径。
func (l *Lock) Path() string { return l.path }

// Release 释放锁；重复调用是安全的。锁文件本身保留，供下次复用。
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

// LockPath 返回 dir 对应的锁文件路径：<tmp>/deskclean-<sha256(abs dir)[:16]>.lock。
// 锁文件不放在目标目录里，避免它出现在下一次扫描结果中。
func LockPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockDirFunc(), "deskclean-"+hex.EncodeToString(sum[:])[:16]+".lock"), nil
}

// Acquire 对 dir 加非阻塞锁；已被其他进程持有时返回 ErrLocked。
func Acquire(dir string) (*Lock, error) {
	p, err := LockPath(dir)
	if err != nil {
		return nil, err
	}

	fl := flock.New(p)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("获取运行锁失败：%w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w（锁文件 %s）", ErrLocked, p)
	}
	return &Lock{path: p, fl: fl}, nil
}
