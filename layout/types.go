package layout

import "github.com/ByLCY/vrain/config"

// 该文件定义排版结果（DocumentPlan），供渲染器与调试 JSON 共用。
// 坐标单位为画布像素，原点位于左下角，y 轴向上。

// CoverMode 决定封面的绘制方式。
type CoverMode string

const (
	CoverImage     CoverMode = "image"
	CoverGenerated CoverMode = "generated"
)

// GlyphPlacement 是一个已经确定字体、字号与位置的字符。
// X/Y 为字形基线起点；RotateDeg 为负数时表示逆时针旋转。
type GlyphPlacement struct {
	Char      string       `json:"ch"`
	FontSlot  int          `json:"font_idx"`
	FontSize  float64      `json:"font_size"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	RotateDeg float64      `json:"rotate_deg"`
	Color     config.Color `json:"color"`
}

// LinePlacement 表示专名线、书名线等竖线。
type LinePlacement struct {
	X1    float64      `json:"x1"`
	Y1    float64      `json:"y1"`
	X2    float64      `json:"x2"`
	Y2    float64      `json:"y2"`
	Width float64      `json:"width"`
	Color config.Color `json:"color"`
	Wavy  bool         `json:"wavy"`
}

// PagePlan 记录一页的页码、书口标题以及全部字形与线条。
type PagePlan struct {
	Number int              `json:"number"`
	Title  string           `json:"title"`
	Glyphs []GlyphPlacement `json:"glyphs"`
	Lines  []LinePlacement  `json:"lines"`
}

// OutlineEntry 对应 PDF 书签中的一项。
type OutlineEntry struct {
	Title string `json:"title"`
	Page  int    `json:"page_number"`
}

// DocumentPlan 是排版阶段的最终产物。
type DocumentPlan struct {
	Cover     CoverMode      `json:"cover"`
	CoverPath string         `json:"cover_path,omitempty"`
	Pages     []PagePlan     `json:"pages"`
	Outlines  []OutlineEntry `json:"outlines"`
}
