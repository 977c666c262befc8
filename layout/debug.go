package layout

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Validate 检查页码严格递增且目录只指向存在的页。
func (p *DocumentPlan) Validate() error {
	if p.Cover == CoverImage && p.CoverPath == "" {
		return errors.Wrap(ErrInvalidPlan, "封面为图片模式但没有记录图片路径")
	}
	last := 0
	seen := make(map[int]struct{}, len(p.Pages))
	for _, page := range p.Pages {
		if page.Number == 0 {
			return errors.Wrap(ErrInvalidPlan, "页码不能为 0")
		}
		if page.Number <= last {
			return errors.Wrapf(ErrInvalidPlan, "页码必须严格递增（%d -> %d）", last, page.Number)
		}
		last = page.Number
		seen[page.Number] = struct{}{}
	}
	for _, o := range p.Outlines {
		if _, ok := seen[o.Page]; !ok {
			return errors.Wrapf(ErrInvalidPlan, "目录项 %q 指向不存在的第 %d 页", o.Title, o.Page)
		}
	}
	return nil
}

// WriteDebugJSON 将排版结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(plan *DocumentPlan, path string) error {
	if plan == nil {
		return nil
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
