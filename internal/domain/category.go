package domain

// Category 是分类目录名，同时也是 Plan/Result 中的分组键。
//
// 取值集合固定（见 AllCategories）；Others 是兜底分类。
type Category string

const (
	CategoryDocuments  Category = "Documents"
	CategoryImages     Category = "Images"
	CategoryVideos     Category = "Videos"
	CategoryPDF        Category = "PDF"
	CategoryZIPs       Category = "ZIPs"
	CategoryInstallers Category = "Installers"
	CategoryOthers     Category = "Others"
)

var allCategories = [...]Category{
	CategoryDocuments,
	CategoryImages,
	CategoryVideos,
	CategoryPDF,
	CategoryZIPs,
	CategoryInstallers,
	CategoryOthers,
}

// AllCategories 返回全部分类（规范顺序）。返回的是副本，调用方可随意修改。
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories[:])
	return out
}

// Valid 判断 c 是否属于固定分类集合。
func (c Category) Valid() bool {
	return c.Rank() >= 0
}

// Rank 返回 c 在规范顺序中的下标；未知分类返回 -1。
func (c Category) Rank() int {
	for i, x := range allCategories {
		if x == c {
			return i
		}
	}
	return -1
}

func (c Category) String() string { return string(c) }
