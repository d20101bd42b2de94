package planner

import (
	"reflect"
	"testing"

	"github.com/John-Robertt/deskclean/internal/domain"
)

func rec(name, ext string) domain.FileRecord {
	return domain.FileRecord{AbsPath: "/d/" + name, Name: name, Ext: ext, Size: 1}
}

func TestBuildPlan_GroupsByCategory(t *testing.T) {
	files := []domain.FileRecord{
		rec("unknown.xyz", ".xyz"),
		rec("photo.png", ".png"),
		rec("report.docx", ".docx"),
		rec("second.JPG", ".jpg"),
		rec("manual.pdf", ".pdf"),
	}

	p := BuildPlan(files)

	if p.TotalFiles != len(files) {
		t.Fatalf("TotalFiles=%d，期望 %d", p.TotalFiles, len(files))
	}
	wantFolders := []domain.Category{domain.CategoryDocuments, domain.CategoryImages, domain.CategoryPDF, domain.CategoryOthers}
	if !reflect.DeepEqual(p.FoldersToCreate, wantFolders) {
		t.Fatalf("FoldersToCreate=%v，期望 %v", p.FoldersToCreate, wantFolders)
	}
	imgs := p.FilesByCategory[domain.CategoryImages]
	if len(imgs) != 2 || imgs[0].Name != "photo.png" || imgs[1].Name != "second.JPG" {
		t.Fatalf("Images 分组应保持输入顺序：%+v", imgs)
	}
	if _, ok := p.FilesByCategory[domain.CategoryVideos]; ok {
		t.Fatalf("没有文件的分类不应出现")
	}
}

func TestBuildPlan_Invariants(t *testing.T) {
	exts := []string{".doc", ".png", ".mp4", ".pdf", ".zip", ".exe", ".foo", "", ".GZ", ".webm"}
	var files []domain.FileRecord
	for i := 0; i < 40; i++ {
		ext := exts[i%len(exts)]
		files = append(files, rec("f"+ext, ext))
	}

	p := BuildPlan(files)

	sum := 0
	for _, fs := range p.FilesByCategory {
		if len(fs) == 0 {
			t.Fatalf("不应存在空分组")
		}
		sum += len(fs)
	}
	if sum != p.TotalFiles || p.TotalFiles != len(files) {
		t.Fatalf("分组合计 %d 与 TotalFiles %d 不一致", sum, p.TotalFiles)
	}
	if len(p.FoldersToCreate) != len(p.FilesByCategory) {
		t.Fatalf("FoldersToCreate 与分组键数量不一致")
	}
	for _, c := range p.FoldersToCreate {
		if _, ok := p.FilesByCategory[c]; !ok {
			t.Fatalf("FoldersToCreate 包含多余分类 %q", c)
		}
	}
}

func TestBuildPlan_Deterministic(t *testing.T) {
	files := []domain.FileRecord{rec("a.zip", ".zip"), rec("b.txt", ".txt"), rec("c.exe", ".exe"), rec("d.bin", ".bin")}
	a := BuildPlan(files)
	b := BuildPlan(files)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("相同输入应得到相同计划")
	}
}

func TestBuildPlan_Empty(t *testing.T) {
	p := BuildPlan(nil)
	if !p.Empty() || p.TotalFiles != 0 {
		t.Fatalf("空输入应得到空计划：%+v", p)
	}
	if len(p.FoldersToCreate) != 0 || len(p.FilesByCategory) != 0 {
		t.Fatalf("空计划不应包含分类：%+v", p)
	}
}

func TestBuildPlan_FallsBackToName(t *testing.T) {
	p := BuildPlan([]domain.FileRecord{{AbsPath: "/d/clip.MOV", Name: "clip.MOV"}})
	if len(p.FilesByCategory[domain.CategoryVideos]) != 1 {
		t.Fatalf("缺少 Ext 时应按文件名分类：%+v", p)
	}
}

func TestBuildPlan_LeadingDotNameIsOthers(t *testing.T) {
	p := BuildPlan([]domain.FileRecord{
		{AbsPath: "/d/.pdf", Name: ".pdf"},
		{AbsPath: "/d/.gitignore", Name: ".gitignore"},
	})
	if len(p.FilesByCategory[domain.CategoryOthers]) != 2 || len(p.FilesByCategory) != 1 {
		t.Fatalf("只有前导点的文件名应归入 Others：%+v", p)
	}
}

func TestSortCategories(t *testing.T) {
	cs := []domain.Category{"Zeta", domain.CategoryOthers, domain.CategoryPDF, "Alpha", domain.CategoryDocuments}
	SortCategories(cs)
	want := []domain.Category{domain.CategoryDocuments, domain.CategoryPDF, domain.CategoryOthers, "Alpha", "Zeta"}
	if !reflect.DeepEqual(cs, want) {
		t.Fatalf("排序结果 %v，期望 %v", cs, want)
	}
}
