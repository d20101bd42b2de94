//go:build unix

package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func exdevRename(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
}

func TestRename_CrossDeviceEXDEV(t *testing.T) {
	old := renameFunc
	renameFunc = exdevRename
	defer func() { renameFunc = old }()

	err := Rename("/a", "/b")
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if !IsCrossDevice(err) {
		t.Fatalf("期望 CrossDeviceError，实际：%T %v", err, err)
	}
}

func TestMoveFile_CrossDeviceFallsBackToCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	dst := filepath.Join(dir, "b.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	old := renameNoReplaceFunc
	renameNoReplaceFunc = exdevRename
	defer func() { renameNoReplaceFunc = old }()

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("跨盘兜底不应失败：%v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("源文件应已删除：%v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "payload" {
		t.Fatalf("目标内容不一致：%q %v", string(b), err)
	}
	fi, err := os.Stat(dst)
	if err != nil || fi.Mode().Perm() != 0o600 {
		t.Fatalf("应保留源文件权限：%v %v", fi.Mode(), err)
	}
}

func TestMoveFile_CrossDeviceNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	old := renameNoReplaceFunc
	renameNoReplaceFunc = exdevRename
	defer func() { renameNoReplaceFunc = old }()

	err := MoveFile(src, dst)
	if !IsCrossDevice(err) {
		t.Fatalf("期望 CrossDeviceError，实际：%v", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "old" {
		t.Fatalf("已有文件被覆盖：%q", string(b))
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("失败时源文件应保留：%v", err)
	}
}

func TestMoveFile_CrossDeviceRemoveFailCleansCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	oldRename, oldRemove := renameNoReplaceFunc, removeFunc
	renameNoReplaceFunc = exdevRename
	removeFunc = func(string) error { return os.ErrPermission }
	defer func() { renameNoReplaceFunc, removeFunc = oldRename, oldRemove }()

	if err := MoveFile(src, dst); !IsCrossDevice(err) {
		t.Fatalf("期望 CrossDeviceError，实际：%v", err)
	}
	if _, err := os.Stat(dst); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("删除源失败时应清理副本：%v", err)
	}
}

func TestMoveFile_CrossDeviceDestinationExistsIsRetryable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	old := renameNoReplaceFunc
	renameNoReplaceFunc = exdevRename
	defer func() { renameNoReplaceFunc = old }()

	if err := MoveFile(src, dst); !IsDestinationExists(err) {
		t.Fatalf("O_EXCL 冲突应可识别为目标已存在：%v", err)
	}
}

func TestLinkRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	taken := filepath.Join(dir, "taken.txt")
	free := filepath.Join(dir, "free.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := os.WriteFile(taken, []byte("t"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	if err := linkRename(src, taken); !IsDestinationExists(err) {
		t.Fatalf("期望目标已存在错误，实际：%v", err)
	}
	if b, _ := os.ReadFile(taken); string(b) != "t" {
		t.Fatalf("已有文件被覆盖：%q", string(b))
	}

	if err := linkRename(src, free); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Lstat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("源文件应已移走：%v", err)
	}
	if b, _ := os.ReadFile(free); string(b) != "a" {
		t.Fatalf("目标内容不一致：%q", string(b))
	}
}

func TestLinkRename_SymlinkMovesLinkItself(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link")
	dst := filepath.Join(dir, "moved")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("创建符号链接失败：%v", err)
	}

	if err := linkRename(link, dst); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	fi, err := os.Lstat(dst)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("目标应仍是符号链接：%v %v", fi, err)
	}
}
