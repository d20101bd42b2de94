// Package categorize 把文件扩展名映射为分类（纯函数，无副作用）。
package categorize

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/John-Robertt/deskclean/internal/domain"
)

// table 是“分类 -> 扩展名列表”的静态数据；未列出的扩展名一律归入 Others。
var table = []struct {
	Category   domain.Category
	Extensions []string
}{
	{domain.CategoryDocuments, []string{".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".ppt", ".pptx"}},
	{domain.CategoryImages, []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".ico", ".webp"}},
	{domain.CategoryVideos, []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"}},
	{domain.CategoryPDF, []string{".pdf"}},
	{domain.CategoryZIPs, []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
	{domain.CategoryInstallers, []string{".exe", ".msi", ".dmg", ".pkg"}},
}

// byExt 是 table 的倒排索引，包初始化时构建一次，之后只读。
var byExt = buildIndex()

func buildIndex() map[string]domain.Category {
	idx := make(map[string]domain.Category, 64)
	for _, row := range table {
		for _, ext := range row.Extensions {
			idx[fold(ext)] = row.Category
		}
	}
	return idx
}

// Of 返回扩展名（如 ".JPG"）或路径（如 "a/b/photo.JPG"）对应的分类。
//
// 全函数：永不失败、永不返回空；大小写不影响结果；未知或缺失的扩展名返回 Others。
func Of(extOrPath string) domain.Category {
	if c, ok := byExt[fold(extension(extOrPath))]; ok {
		return c
	}
	return domain.CategoryOthers
}

// Extension 返回 name 的规范化扩展名（小写、带 '.'；没有则为空串）。
// ".gitignore"、".pdf" 这类只有前导点的隐藏文件名没有扩展名。
func Extension(name string) string {
	return fold(nameExt(filepath.Base(name)))
}

// ExtensionMapping 返回完整的“扩展名 -> 分类”映射（副本）。
func ExtensionMapping() map[string]domain.Category {
	out := make(map[string]domain.Category, len(byExt))
	for k, v := range byExt {
		out[k] = v
	}
	return out
}

// Extensions 按 table 顺序返回某个分类的扩展名；Others 与未知分类返回 nil。
func Extensions(c domain.Category) []string {
	for _, row := range table {
		if row.Category == c {
			return append([]string(nil), row.Extensions...)
		}
	}
	return nil
}

// extension 兼容两种输入：
// - 裸扩展名（以 '.' 开头且不含路径分隔符），例如 ".tar"
// - 文件名/路径，取最后一个 '.' 之后的后缀，例如 "backup.tar.gz" -> ".gz"
//
// 路径里的 "dir/.pdf" 按文件名处理（没有扩展名），只有不带目录的 ".pdf" 才算裸扩展名。
func extension(s string) string {
	if strings.HasPrefix(s, ".") && !strings.ContainsAny(s[1:], `./\`) {
		return s
	}
	return nameExt(s[strings.LastIndexAny(s, `/\`)+1:])
}

func nameExt(base string) string {
	if strings.HasPrefix(base, ".") && !strings.Contains(base[1:], ".") {
		return ""
	}
	return filepath.Ext(base)
}

// cases.Caser 带状态，不能跨 goroutine 共享；每次调用新建一个。
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
