package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildGridCapacity(t *testing.T) {
	modes := []MultiRowMode{
		{Kind: MultiRowDisabled},
		{Kind: MultiRowLeaf, Rows: 2},
		{Kind: MultiRowPage, Rows: 2},
		{Kind: MultiRowLeaf, Rows: 4},
	}
	for _, mode := range modes {
		g, err := BuildGrid(testBook(20), testCanvas(4), mode)
		require.NoError(t, err)
		require.Equal(t, g.Columns*g.RowsPerColumn*g.Bands, g.Capacity())
		require.Equal(t, 80, g.Capacity())
		require.Len(t, g.main, g.Capacity()+1)
		require.Len(t, g.annotation, g.Capacity()+1)

		p, ok := g.Main(0)
		require.True(t, ok)
		require.Equal(t, Point{}, p)
		p, ok = g.Annotation(0)
		require.True(t, ok)
		require.Equal(t, Point{}, p)

		_, ok = g.Main(g.Capacity() + 1)
		require.False(t, ok)
		_, ok = g.Annotation(-1)
		require.False(t, ok)
	}
}

func TestBuildGridPositions(t *testing.T) {
	g := mustGrid(testBook(20), testCanvas(2), MultiRowMode{})
	require.InDelta(t, 100.0, g.ColumnWidth, 1e-9)
	require.InDelta(t, 100.0, g.RowHeight, 1e-9)

	p, _ := g.Main(1)
	require.Equal(t, Point{X: 140, Y: 1900}, p)
	p, _ = g.Main(20)
	require.Equal(t, Point{X: 140, Y: 0}, p)

	// 第二列位于版心左侧
	p, _ = g.Main(21)
	require.Equal(t, Point{X: 0, Y: 1900}, p)

	a, _ := g.Annotation(21)
	require.Equal(t, Point{X: 50, Y: 1900}, a)
}

func TestBuildGridRowDelta(t *testing.T) {
	book := testBook(20)
	book.RowDeltaY = 12.5
	g := mustGrid(book, testCanvas(2), MultiRowMode{})
	p, _ := g.Main(1)
	require.Equal(t, 1912.5, p.Y)
}

func TestBuildGridHorizontalLeaf(t *testing.T) {
	g := mustGrid(testBook(4), testCanvas(4), MultiRowMode{Kind: MultiRowLeaf, Rows: 2})
	require.Equal(t, 2, g.RowsPerColumn)

	// 第一栏四列之后才进入第二栏
	p, _ := g.Main(7)
	require.Equal(t, g.ColumnX(4), p.X)
	p, _ = g.Main(9)
	require.Equal(t, g.ColumnX(1), p.X)
	require.Equal(t, 2000-3*g.RowHeight, p.Y)
}

func TestBuildGridHorizontalPage(t *testing.T) {
	g := mustGrid(testBook(4), testCanvas(4), MultiRowMode{Kind: MultiRowPage, Rows: 2})

	// 右半叶：栏 0 的 1、2 列，接着栏 1 的 1、2 列
	p, _ := g.Main(3)
	require.Equal(t, g.ColumnX(2), p.X)
	require.Equal(t, 2000-g.RowHeight, p.Y)
	p, _ = g.Main(5)
	require.Equal(t, g.ColumnX(1), p.X)
	require.Equal(t, 2000-3*g.RowHeight, p.Y)

	// 左半叶从第 9 格开始
	p, _ = g.Main(9)
	require.Equal(t, g.ColumnX(3), p.X)
	require.Equal(t, 2000-g.RowHeight, p.Y)
	require.Equal(t, 100.0, g.ColumnX(3), "左半叶让出 40 的版心")
}

func TestBuildGridRejectsInvalidGeometry(t *testing.T) {
	_, err := BuildGrid(testBook(0), testCanvas(2), MultiRowMode{})
	require.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = BuildGrid(testBook(20), testCanvas(0), MultiRowMode{})
	require.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = BuildGrid(testBook(21), testCanvas(2), MultiRowMode{Kind: MultiRowLeaf, Rows: 2})
	require.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestMultiRowModeFromFlags(t *testing.T) {
	require.Equal(t, MultiRowMode{Kind: MultiRowDisabled}, MultiRowModeFromFlags(false, 3, 1))
	require.Equal(t, MultiRowMode{Kind: MultiRowDisabled}, MultiRowModeFromFlags(true, 1, 2))
	require.Equal(t, MultiRowMode{Kind: MultiRowLeaf, Rows: 3}, MultiRowModeFromFlags(true, 3, 1))
	require.Equal(t, MultiRowMode{Kind: MultiRowPage, Rows: 2}, MultiRowModeFromFlags(true, 2, 2))
	require.Equal(t, MultiRowMode{Kind: MultiRowLeaf, Rows: 2}, MultiRowModeFromFlags(true, 2, 7))
	require.Equal(t, 1, MultiRowMode{}.Bands())
}
