package domain

// FileRecord 描述一次扫描得到的待整理文件（只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - AbsPath 必须是 clean + absolute
// - Ext 为小写且带前导 '.'；无扩展名时为空串
// - 扫描之后只读，Planner/Mover 不会修改它
type FileRecord struct {
	AbsPath string `json:"path" yaml:"path"`
	Name    string `json:"name" yaml:"name"`
	Ext     string `json:"ext" yaml:"ext"`
	Size    int64  `json:"size" yaml:"size"`
}
