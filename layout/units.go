package layout

import "math"

// 画布配置以像素为单位，输出 PDF 时按 1px = 1pt 处理。

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
	// PxToMm 与 PtToMm 相同：像素直接当作点。
	PxToMm = PtToMm
)

// PxToMM converts a canvas length to millimeters.
func PxToMM(v float64) float64 { return v * PxToMm }

// MMToPx converts millimeters back to canvas pixels.
func MMToPx(v float64) float64 { return v / PxToMm }

// round3 保留三位小数，NaN 归零。
func round3(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(v*1000) / 1000
}
