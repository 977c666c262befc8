package renderer

import (
	"math"

	"github.com/ByLCY/vrain/layout"
)

// Renderer 将排版结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(plan *layout.DocumentPlan) ([]byte, error)
}

// LinePoints 返回线条的折线顶点。波浪线按正弦采样，振幅为线长的 5%。
func LinePoints(l layout.LinePlacement) []layout.Point {
	if !l.Wavy {
		return []layout.Point{{X: l.X1, Y: l.Y1}, {X: l.X2, Y: l.Y2}}
	}
	dy := l.Y2 - l.Y1
	length := math.Max(math.Abs(dy), 1)
	segments := int(math.Ceil(math.Max(math.Abs(dy), 20) / 12))
	amplitude := length * 0.05
	wavelength := length / float64(segments)

	points := make([]layout.Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		y := l.Y1 + dy*t
		wave := amplitude * math.Sin(2*math.Pi*(y-l.Y1)/wavelength)
		points = append(points, layout.Point{X: l.X1 + wave, Y: y})
	}
	return points
}
