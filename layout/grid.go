package layout

import (
	"github.com/pkg/errors"

	"github.com/ByLCY/vrain/config"
)

// MultiRowKind 区分多栏排版方式。
type MultiRowKind int

const (
	MultiRowDisabled MultiRowKind = iota
	// MultiRowLeaf 每个叶面内部按栏重复。
	MultiRowLeaf
	// MultiRowPage 先排完整页右半叶的所有栏，再排左半叶。
	MultiRowPage
)

// MultiRowMode 描述页面在纵向上被切成几栏。
type MultiRowMode struct {
	Kind MultiRowKind
	Rows int
}

// MultiRowModeFromFlags 由画布与书籍配置推导多栏模式。
func MultiRowModeFromFlags(enabled bool, count, layoutFlag int) MultiRowMode {
	if !enabled || count <= 1 {
		return MultiRowMode{Kind: MultiRowDisabled}
	}
	if layoutFlag == 2 {
		return MultiRowMode{Kind: MultiRowPage, Rows: count}
	}
	return MultiRowMode{Kind: MultiRowLeaf, Rows: count}
}

// Bands 返回栏数，未启用时为 1。
func (m MultiRowMode) Bands() int {
	if m.Kind == MultiRowDisabled {
		return 1
	}
	return m.Rows
}

// Point 是画布坐标系中的一点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Grid 保存一页内每个格位的坐标，格位从 1 开始编号，0 号为原点哨兵。
type Grid struct {
	capacity   int
	main       []Point
	annotation []Point

	ColumnWidth   float64
	RowHeight     float64
	CanvasWidth   float64
	CanvasHeight  float64
	MarginTop     float64
	MarginBottom  float64
	MarginLeft    float64
	MarginRight   float64
	Gutter        float64
	RowsPerColumn int
	Columns       int
	Bands         int
}

// BuildGrid 计算版面网格。
func BuildGrid(book *config.Book, canvas *config.Canvas, mode MultiRowMode) (*Grid, error) {
	cols, rows := canvas.LeafCol, book.RowNum
	if cols <= 0 || rows <= 0 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "leaf_col=%d row_num=%d 必须大于 0", cols, rows)
	}
	bands := mode.Bands()
	if bands <= 0 || rows%bands != 0 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "row_num %d 不能被多栏数 %d 整除", rows, bands)
	}

	g := &Grid{
		capacity:      cols * rows,
		ColumnWidth:   (canvas.Width - canvas.MarginLeft - canvas.MarginRight - canvas.LeafCenterWidth) / float64(cols),
		RowHeight:     (canvas.Height - canvas.MarginTop - canvas.MarginBottom) / float64(rows),
		CanvasWidth:   canvas.Width,
		CanvasHeight:  canvas.Height,
		MarginTop:     canvas.MarginTop,
		MarginBottom:  canvas.MarginBottom,
		MarginLeft:    canvas.MarginLeft,
		MarginRight:   canvas.MarginRight,
		Gutter:        canvas.LeafCenterWidth,
		RowsPerColumn: rows / bands,
		Columns:       cols,
		Bands:         bands,
	}
	g.main = make([]Point, 1, g.capacity+1)
	g.annotation = make([]Point, 1, g.capacity+1)

	column := func(band, col int) {
		x := g.ColumnX(col)
		for j := 1; j <= g.RowsPerColumn; j++ {
			y := g.CanvasHeight - g.MarginTop - float64(g.RowsPerColumn*band)*g.RowHeight -
				g.RowHeight*float64(j) + book.RowDeltaY
			g.push(x, y)
		}
	}

	switch mode.Kind {
	case MultiRowPage:
		half := cols / 2
		for band := 0; band < bands; band++ {
			for i := 1; i <= half; i++ {
				column(band, i)
			}
		}
		for band := 0; band < bands; band++ {
			for i := half + 1; i <= cols; i++ {
				column(band, i)
			}
		}
	default:
		for band := 0; band < bands; band++ {
			for i := 1; i <= cols; i++ {
				column(band, i)
			}
		}
	}
	return g, nil
}

func (g *Grid) push(x, y float64) {
	x, y = round3(x), round3(y)
	g.main = append(g.main, Point{X: x, Y: y})
	g.annotation = append(g.annotation, Point{X: x + g.ColumnWidth/2, Y: y})
}

// ColumnX 返回第 i 列（从右往左数，1 开始）左边缘的 x 坐标，左半叶需要让出版心。
func (g *Grid) ColumnX(i int) float64 {
	x := g.CanvasWidth - g.MarginRight - g.ColumnWidth*float64(i)
	if 2*i > g.Columns {
		x -= g.Gutter
	}
	return x
}

// Capacity 返回每页格位数。
func (g *Grid) Capacity() int { return g.capacity }

// Main 返回正文格位坐标。
func (g *Grid) Main(i int) (Point, bool) {
	if i < 0 || i >= len(g.main) {
		return Point{}, false
	}
	return g.main[i], true
}

// Annotation 返回夹注右半列坐标。
func (g *Grid) Annotation(i int) (Point, bool) {
	if i < 0 || i >= len(g.annotation) {
		return Point{}, false
	}
	return g.annotation[i], true
}
