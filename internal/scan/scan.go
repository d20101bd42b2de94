package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/cases"

	"github.com/John-Robertt/deskclean/internal/categorize"
	"github.com/John-Robertt/deskclean/internal/domain"
	"github.com/John-Robertt/deskclean/internal/logging"
)

// systemMarkerName 是系统生成的桌面配置文件，永远不参与整理（大小写不敏感）。
const systemMarkerName = "desktop.ini"

var (
	// ErrDirectoryNotFound 表示目标目录不存在（或不是目录）。
	ErrDirectoryNotFound = errors.New("目标目录不存在")
	// ErrAccessDenied 表示目标目录存在但当前用户无读权限。
	ErrAccessDenied = errors.New("目标目录无读权限")
)

// 通过可替换的函数指针，让测试能稳定模拟 home 目录与 stat 失败。
var (
	homeDirFunc = os.UserHomeDir
	statFunc    = os.Stat
)

// DirectoryNotFoundError 携带出错路径；errors.Is(err, ErrDirectoryNotFound) 成立。
type DirectoryNotFoundError struct {
	Path string
	Err  error
}

func (e *DirectoryNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("目标目录不存在：%q：%v", e.Path, e.Err)
	}
	return fmt.Sprintf("目标目录不存在：%q", e.Path)
}

func (e *DirectoryNotFoundError) Is(target error) bool { return target == ErrDirectoryNotFound }
func (e *DirectoryNotFoundError) Unwrap() error        { return e.Err }

// AccessDeniedError 携带出错路径；errors.Is(err, ErrAccessDenied) 成立。
type AccessDeniedError struct {
	Path string
	Err  error
}

func (e *AccessDeniedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("无法访问目标目录 %q：%v", e.Path, e.Err)
	}
	return fmt.Sprintf("无法访问目标目录 %q", e.Path)
}

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }
func (e *AccessDeniedError) Unwrap() error        { return e.Err }

// LocateDesktop 返回当前用户的 Desktop 目录（<home>/Desktop）。
func LocateDesktop() (string, error) {
	home, err := homeDirFunc()
	if err != nil {
		return "", &DirectoryNotFoundError{Path: "~/Desktop", Err: err}
	}
	dir := filepath.Join(home, "Desktop")
	if err := checkDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Scanner 列出目标目录下可整理的文件。零值可用（不输出日志）。
type Scanner struct {
	Logger *slog.Logger
}

// Scan 是 Scanner{}.Scan 的便捷形式。
func Scan(dir string) ([]domain.FileRecord, error) {
	return Scanner{}.Scan(dir)
}

// Scan 只遍历 dir 的直接子项（不递归），并应用排除规则。
//
// 规则：
// - dir 不存在 => DirectoryNotFoundError；不可读 => AccessDeniedError（遍历前显式检查）
// - 单个条目 stat 失败（权限/被并发删除）=> 静默跳过，不影响整体
// - 目录、desktop.ini、隐藏文件、非普通文件一律排除
//
// 返回结果按文件名排序，仅为了展示稳定；调用方不应依赖顺序。
func (s Scanner) Scan(dir string) ([]domain.FileRecord, error) {
	log := s.Logger
	if log == nil {
		log = logging.NewNop()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &DirectoryNotFoundError{Path: dir, Err: err}
	}
	if err := checkDir(abs); err != nil {
		return nil, err
	}
	if err := accessFunc(abs); err != nil {
		return nil, &AccessDeniedError{Path: abs, Err: err}
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, &AccessDeniedError{Path: abs, Err: err}
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DirectoryNotFoundError{Path: abs, Err: err}
		}
		return nil, fmt.Errorf("读取目录 %q 失败：%w", abs, err)
	}

	files := make([]domain.FileRecord, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(abs, name)

		// 跟随符号链接：指向目录的链接按目录排除，悬空链接 stat 失败后跳过。
		info, err := statFunc(path)
		if err != nil {
			log.Debug("跳过无法 stat 的条目", slog.String("path", path), slog.Any("error", err))
			continue
		}
		if Excluded(abs, name, info) {
			log.Debug("排除条目", slog.String("path", path))
			continue
		}
		if !info.Mode().IsRegular() {
			log.Debug("跳过非普通文件", slog.String("path", path), slog.String("mode", info.Mode().String()))
			continue
		}

		files = append(files, domain.FileRecord{
			AbsPath: path,
			Name:    name,
			Ext:     categorize.Extension(name),
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	log.Debug("扫描完成", slog.String("dir", abs), slog.Int("entries", len(entries)), slog.Int("files", len(files)))
	return files, nil
}

// Excluded 判断 dir 下名为 name 的条目是否不参与整理。
// info 为该条目（跟随链接后）的 stat 结果。
func Excluded(dir, name string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return true
	}
	if IsSystemMarker(name) {
		return true
	}
	return IsHidden(filepath.Join(dir, name), name)
}

// IsSystemMarker 判断 name 是否为 desktop.ini（大小写不敏感）。
func IsSystemMarker(name string) bool {
	fold := cases.Fold()
	return fold.String(name) == fold.String(systemMarkerName)
}

func checkDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &DirectoryNotFoundError{Path: dir, Err: err}
		}
		if errors.Is(err, fs.ErrPermission) {
			return &AccessDeniedError{Path: dir, Err: err}
		}
		return &DirectoryNotFoundError{Path: dir, Err: err}
	}
	if !fi.IsDir() {
		return &DirectoryNotFoundError{Path: dir, Err: errors.New("不是目录")}
	}
	return nil
}
