package mover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/John-Robertt/deskclean/internal/domain"
	"github.com/John-Robertt/deskclean/internal/infra/fsx"
)

func TestEnsureFolder_Idempotent(t *testing.T) {
	base := t.TempDir()
	m := Mover{}

	for i := 0; i < 3; i++ {
		if !m.EnsureFolder(base, domain.CategoryImages) {
			t.Fatalf("第 %d 次 EnsureFolder 失败", i+1)
		}
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	n := 0
	for _, e := range entries {
		if e.Name() == string(domain.CategoryImages) && e.IsDir() {
			n++
		}
	}
	if n != 1 || len(entries) != 1 {
		t.Fatalf("期望恰好 1 个 Images 目录，实际 entries=%d images=%d", len(entries), n)
	}
}

func TestEnsureFolder_InvalidParent(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nonexistent", "invalid", "path")
	if (Mover{}).EnsureFolder(base, domain.CategoryDocuments) {
		t.Fatalf("父目录不存在时期望失败")
	}
}

func TestEnsureFolder_FileInTheWay(t *testing.T) {
	base := t.TempDir()
	write(t, filepath.Join(base, "PDF"), "not a dir")

	err := (Mover{}).EnsureFolderErr(base, domain.CategoryPDF)
	if !fsx.IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%v", err)
	}
}

func TestResolveCollision(t *testing.T) {
	dir := t.TempDir()

	free := filepath.Join(dir, "a.txt")
	if got := ResolveCollision(free); got != free {
		t.Fatalf("无冲突时应原样返回：%q", got)
	}

	write(t, filepath.Join(dir, "a.txt"), "0")
	write(t, filepath.Join(dir, "a_1.txt"), "1")
	write(t, filepath.Join(dir, "a_2.txt"), "2")
	if got, want := ResolveCollision(free), filepath.Join(dir, "a_3.txt"); got != want {
		t.Fatalf("期望 %q，实际 %q", want, got)
	}

	// 无扩展名与多段扩展名。
	write(t, filepath.Join(dir, "README"), "r")
	if got, want := ResolveCollision(filepath.Join(dir, "README")), filepath.Join(dir, "README_1"); got != want {
		t.Fatalf("期望 %q，实际 %q", want, got)
	}
	write(t, filepath.Join(dir, "backup.tar.gz"), "b")
	if got, want := ResolveCollision(filepath.Join(dir, "backup.tar.gz")), filepath.Join(dir, "backup.tar_1.gz"); got != want {
		t.Fatalf("期望 %q，实际 %q", want, got)
	}

	// 目录同样算“已占用”。
	if err := os.Mkdir(filepath.Join(dir, "d.pdf"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if got, want := ResolveCollision(filepath.Join(dir, "d.pdf")), filepath.Join(dir, "d_1.pdf"); got != want {
		t.Fatalf("期望 %q，实际 %q", want, got)
	}
}

func TestMove_PreservesNameAndContent(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "Documents")
	mkdir(t, dest)
	src := filepath.Join(base, "My Report (final).docx")
	write(t, src, "report body")

	out := (Mover{}).Move(src, dest)
	if !out.Success || out.Error != "" {
		t.Fatalf("期望成功：%+v", out)
	}
	if out.Source != src || out.Destination != filepath.Join(dest, "My Report (final).docx") {
		t.Fatalf("路径不符合预期：%+v", out)
	}
	if got := read(t, out.Destination); got != "report body" {
		t.Fatalf("内容不一致：%q", got)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("源文件应已移走：%v", err)
	}
}

func TestMove_CollisionFreeRename(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "Images")
	mkdir(t, dest)

	srcA := filepath.Join(base, "a", "photo.png")
	srcB := filepath.Join(base, "b", "photo.png")
	write(t, srcA, "first")
	write(t, srcB, "second")

	m := Mover{}
	outA := m.Move(srcA, dest)
	outB := m.Move(srcB, dest)
	if !outA.Success || !outB.Success {
		t.Fatalf("期望都成功：%+v %+v", outA, outB)
	}
	if outA.Destination != filepath.Join(dest, "photo.png") {
		t.Fatalf("第一个文件应保留原名：%q", outA.Destination)
	}
	if outB.Destination != filepath.Join(dest, "photo_1.png") {
		t.Fatalf("第二个文件应为 photo_1.png：%q", outB.Destination)
	}
	if read(t, outA.Destination) != "first" || read(t, outB.Destination) != "second" {
		t.Fatalf("内容被覆盖")
	}
}

func TestMove_ManyConflictsNeverOverwrite(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "Documents")
	mkdir(t, dest)
	write(t, filepath.Join(dest, "notes.txt"), "original")

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		src := filepath.Join(base, fmt.Sprintf("tmp%d", i), "notes.txt")
		write(t, src, fmt.Sprintf("content %d", i))

		out := (Mover{}).Move(src, dest)
		if !out.Success {
			t.Fatalf("第 %d 次移动失败：%+v", i, out)
		}
		if seen[out.Destination] {
			t.Fatalf("目标路径重复：%q", out.Destination)
		}
		seen[out.Destination] = true
		if !strings.Contains(filepath.Base(out.Destination), "_") {
			t.Fatalf("冲突文件应带数字后缀：%q", out.Destination)
		}
		if read(t, out.Destination) != fmt.Sprintf("content %d", i) {
			t.Fatalf("内容不一致：%q", out.Destination)
		}
	}
	if read(t, filepath.Join(dest, "notes.txt")) != "original" {
		t.Fatalf("原有文件被覆盖")
	}
}

func TestMove_MissingSource(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "PDF")
	mkdir(t, dest)
	src := filepath.Join(base, "gone.pdf")

	out := (Mover{}).Move(src, dest)
	if out.Success {
		t.Fatalf("源文件不存在时期望失败")
	}
	if out.Error == "" {
		t.Fatalf("失败时应携带原因")
	}
	if out.Destination != filepath.Join(dest, "gone.pdf") {
		t.Fatalf("失败时 Destination 应为原始目标：%q", out.Destination)
	}
}

func TestMove_MissingDestinationFolder(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "a.zip")
	write(t, src, "z")

	out := (Mover{}).Move(src, filepath.Join(base, "ZIPs"))
	if out.Success {
		t.Fatalf("目标目录不存在时期望失败")
	}
	if read(t, src) != "z" {
		t.Fatalf("失败时源文件应保持不变")
	}
}

func TestMove_ErrorIsDescribed(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "a.exe")
	write(t, src, "e")

	old := moveFunc
	moveFunc = func(src, dst string) error {
		return &fsx.CrossDeviceError{Src: src, Dst: dst, Err: errors.New("boom")}
	}
	defer func() { moveFunc = old }()

	out := (Mover{}).Move(src, base)
	if out.Success {
		t.Fatalf("期望失败")
	}
	if !strings.Contains(out.Error, "跨盘") || !strings.Contains(out.Error, "boom") {
		t.Fatalf("错误描述不完整：%q", out.Error)
	}
}

func TestMove_DestinationTakenAfterResolveRetries(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "Images")
	mkdir(t, dest)
	src := filepath.Join(base, "photo.png")
	write(t, src, "mine")

	old := moveFunc
	calls := 0
	moveFunc = func(src, dst string) error {
		calls++
		if calls == 1 {
			// 模拟探测之后、移动之前有别的进程写入了同名文件。
			write(t, dst, "theirs")
		}
		return fsx.MoveFile(src, dst)
	}
	defer func() { moveFunc = old }()

	out := (Mover{}).Move(src, dest)
	if !out.Success {
		t.Fatalf("期望重新探测后成功：%+v", out)
	}
	if calls != 2 {
		t.Fatalf("期望移动尝试 2 次，实际 %d", calls)
	}
	if out.Destination != filepath.Join(dest, "photo_1.png") {
		t.Fatalf("应改用 photo_1.png：%q", out.Destination)
	}
	if read(t, filepath.Join(dest, "photo.png")) != "theirs" {
		t.Fatalf("后来出现的文件被覆盖")
	}
	if read(t, out.Destination) != "mine" {
		t.Fatalf("内容不一致")
	}
}

func TestMove_DestinationAlwaysTakenGivesUp(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "a.txt")
	write(t, src, "a")

	old := moveFunc
	calls := 0
	moveFunc = func(src, dst string) error {
		calls++
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	}
	defer func() { moveFunc = old }()

	out := (Mover{}).Move(src, filepath.Join(base, "Documents"))
	if out.Success {
		t.Fatalf("期望失败")
	}
	if calls != maxCollisionRounds {
		t.Fatalf("重试轮数应有上限 %d，实际 %d", maxCollisionRounds, calls)
	}
	if !strings.Contains(out.Error, "已存在") {
		t.Fatalf("错误描述不完整：%q", out.Error)
	}
	if read(t, src) != "a" {
		t.Fatalf("失败时源文件应保持不变")
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	return string(b)
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
}
