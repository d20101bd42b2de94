package fsx

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// 通过可替换的函数指针，让测试能稳定模拟 EXDEV 等错误。
var (
	renameFunc          = os.Rename
	renameNoReplaceFunc = renameNoReplace
	removeFunc          = os.Remove
)

// PathTypeConflictError 表示目标路径类型冲突（例如期望目录但实际是文件）。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("目标路径类型冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// CrossDeviceError 表示跨盘（EXDEV）导致的 rename 失败。
// MoveFile 会对它做 copy+delete 兜底；只有兜底也失败时才会返回给调用方。
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("跨盘移动失败（EXDEV）：%q -> %q：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice 判断 err 是否为跨盘（EXDEV）错误。
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 封装 os.Rename，并把 EXDEV 显式标记为 CrossDeviceError。
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// RenameNoReplace 与 Rename 相同，但 dst 已存在时失败（errors.Is(err, fs.ErrExist)），绝不覆盖。
//
// - Linux：renameat2(RENAME_NOREPLACE)
// - macOS：renamex_np(RENAME_EXCL)
// - Windows：不带 MOVEFILE_REPLACE_EXISTING 的 MoveFileEx
// - 其余 unix：link+unlink
//
// 文件系统不支持上述原语时退化为“先 Lstat 再 rename”，此时仍有极小的竞争窗口。
func RenameNoReplace(src, dst string) error {
	if err := renameNoReplaceFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// IsDestinationExists 判断 err 是否表示目标路径已被占用。
func IsDestinationExists(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

// MoveFile 把 src 移动到 dst；dst 已存在时返回 fs.ErrExist 类错误，不覆盖。
//
// - 同盘：不覆盖式 rename（原子）
// - 跨盘：复制（O_EXCL，不覆盖已有文件）+ 大小/SHA256 校验 + 删除源文件
//
// 兜底路径中任一步失败都会清理已写出的副本，保证不会出现“源和目标各一份”的中间态。
func MoveFile(src, dst string) error {
	err := RenameNoReplace(src, dst)
	if err == nil || !IsCrossDevice(err) {
		return err
	}

	if cerr := copyFileVerified(src, dst); cerr != nil {
		return &CrossDeviceError{Src: src, Dst: dst, Err: cerr}
	}
	if rerr := removeFunc(src); rerr != nil {
		_ = os.Remove(dst)
		return &CrossDeviceError{Src: src, Dst: dst, Err: fmt.Errorf("复制完成但删除源文件失败：%w", rerr)}
	}
	return nil
}

// checkedRename 是没有原子不覆盖原语时的兜底：Lstat 确认 dst 不存在后再 rename。
func checkedRename(src, dst string) error {
	ok, err := Exists(dst)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	if ok {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	}
	return os.Rename(src, dst)
}

// Exists 用 Lstat 判断 path 上是否已有条目（悬空链接也算存在）。
// 返回的 error 只在“无法判断”时非 nil（例如父目录无权限）。
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureDir 创建单层目录 dir（不创建父目录）。
//
// - 已存在且是目录：成功（幂等）
// - 已存在但不是目录：PathTypeConflictError
func EnsureDir(dir string) error {
	err := os.Mkdir(dir, 0o755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return err
	}
	fi, serr := os.Stat(dir)
	if serr != nil {
		return serr
	}
	if !fi.IsDir() {
		return &PathTypeConflictError{Path: dir, Want: "dir", Got: fi.Mode().Type().String()}
	}
	return nil
}

// WriteFileAtomic 在 dir 下原子写入 name（临时文件 + rename），目标已存在则覆盖。
//
// - 临时文件必须与目标文件在同目录，以保证 rename 的原子性
// - 对临时文件做 Sync；目录 Sync 采用 best-effort（避免平台差异导致误报失败）
func WriteFileAtomic(dir, name string, data []byte) error {
	return writeFileAtomic(dir, name, data, 0o644)
}

func writeFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	// 创建同目录临时文件（前缀带 '.'，避免在桌面视图里闪现）。
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := Rename(tmpName, dst); err != nil {
		return err
	}

	_ = syncDirBestEffort(dir)
	return nil
}

// copyFileVerified 以 O_EXCL 创建 dst 并复制内容，校验大小与 SHA256；失败时删除 dst。
func copyFileVerified(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat 源文件：%w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	if written != srcInfo.Size() {
		return fmt.Errorf("复制大小不一致：源 %d 字节，写入 %d 字节", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return errors.New("复制校验失败：内容不一致")
	}

	// 尽量保留修改时间；失败不影响正确性。
	_ = os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
	return nil
}

func syncDirBestEffort(dir string) error {
	// Windows 上目录 Sync 的语义与支持情况不稳定，这里直接跳过。
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
