package domain

import (
	"encoding/json"
	"time"
)

// MoveOutcome 是单个文件移动尝试的结果（创建后不再修改）。
//
// 失败时 Destination 为“未做冲突处理的目标路径”，Error 为可读的原因描述。
type MoveOutcome struct {
	Success     bool   `json:"success" yaml:"success"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result 是执行一次 Plan 后的汇总。
//
// 约定：
// - sum(MovedByCategory) == TotalMoved
// - 计划中出现的每个分类都在 MovedByCategory 中（全部失败时值为 0）；空计划得到空 map
// - Errors 按尝试顺序排列
type Result struct {
	TotalMoved      int              `json:"total_moved" yaml:"total_moved"`
	MovedByCategory map[Category]int `json:"moved_by_category" yaml:"moved_by_category"`
	Errors          []string         `json:"errors" yaml:"errors"`
	Duration        time.Duration    `json:"-" yaml:"-"`
}

// Consistent 校验 sum(MovedByCategory) == TotalMoved。
func (r Result) Consistent() bool {
	sum := 0
	for _, n := range r.MovedByCategory {
		sum += n
	}
	return sum == r.TotalMoved
}

// MarshalJSON 把 Duration 输出为秒（float），其余字段保持默认行为。
func (r Result) MarshalJSON() ([]byte, error) {
	type Alias Result
	return json.Marshal(struct {
		Alias
		DurationSeconds float64 `json:"duration_seconds"`
	}{
		Alias:           Alias(r),
		DurationSeconds: r.Duration.Seconds(),
	})
}

// UnmarshalJSON 与 MarshalJSON 对称，便于上层回读 report。
func (r *Result) UnmarshalJSON(b []byte) error {
	type Alias Result
	aux := struct {
		*Alias
		DurationSeconds float64 `json:"duration_seconds"`
	}{Alias: (*Alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Duration = time.Duration(aux.DurationSeconds * float64(time.Second))
	return nil
}

// MarshalYAML 与 JSON 输出保持同一形状。
func (r Result) MarshalYAML() (any, error) {
	return struct {
		TotalMoved      int              `yaml:"total_moved"`
		MovedByCategory map[Category]int `yaml:"moved_by_category"`
		Errors          []string         `yaml:"errors"`
		DurationSeconds float64          `yaml:"duration_seconds"`
	}{
		TotalMoved:      r.TotalMoved,
		MovedByCategory: r.MovedByCategory,
		Errors:          r.Errors,
		DurationSeconds: r.Duration.Seconds(),
	}, nil
}

// RunReport 是对外稳定输出（--format json|yaml / --report 文件）的结构。
//
// Result 为 nil 表示没有执行（dry-run、用户取消或没有待整理文件）。
type RunReport struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Path      string `json:"path" yaml:"path"`
	DryRun    bool   `json:"dry_run" yaml:"dry_run"`
	Confirmed bool   `json:"confirmed" yaml:"confirmed"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	Plan   PlanSummary `json:"plan" yaml:"plan"`
	Result *Result     `json:"result" yaml:"result"`
}

// Finalize 把时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z），并把 nil 切片/映射补成空值。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Plan.Counts == nil {
		r.Plan.Counts = map[Category]int{}
	}
	if r.Plan.FoldersToCreate == nil {
		r.Plan.FoldersToCreate = []Category{}
	}
	if r.Result != nil {
		if r.Result.MovedByCategory == nil {
			r.Result.MovedByCategory = map[Category]int{}
		}
		if r.Result.Errors == nil {
			r.Result.Errors = []string{}
		}
	}
}
