package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/vrain/config"
)

func TestAnnotationConsumesHalfSlots(t *testing.T) {
	book := testBook(20)
	grid := mustGrid(book, testCanvas(2), MultiRowMode{})
	e := newTestEngine(book, grid)
	cur := NewCursor()

	process(t, e, cur, "【甲乙丙】")
	require.Equal(t, 2, cur.Slot)
	require.Len(t, cur.Page.Glyphs, 3)
	require.Nil(t, cur.Last)

	// 先右半列自上而下，再左半列
	a1, _ := grid.Annotation(1)
	a2, _ := grid.Annotation(2)
	m1, _ := grid.Main(1)
	want := []Point{a1, a2, m1}
	for i, g := range cur.Page.Glyphs {
		require.Equal(t, 30.0, g.FontSize)
		require.InDelta(t, want[i].X+10, g.X, 1e-9, "glyph %d", i)
		require.InDelta(t, want[i].Y+17.5, g.Y, 1e-9, "glyph %d", i)
		require.Equal(t, book.CommentFontColor, g.Color)
	}
}

func TestAnnotationSlotCountIsCeilHalf(t *testing.T) {
	book := testBook(20)
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))

	for k := 1; k <= 30; k++ {
		for _, start := range []int{0, 7, 15} {
			cur := NewCursor()
			cur.Slot = start
			process(t, e, cur, "【"+strings.Repeat("注", k)+"】")
			require.Equalf(t, start+(k+1)/2, cur.Slot, "k=%d start=%d", k, start)
			require.Len(t, cur.Page.Glyphs, k)
		}
	}
}

func TestAnnotationStaysInsideColumn(t *testing.T) {
	book := testBook(20)
	grid := mustGrid(book, testCanvas(2), MultiRowMode{})
	e := newTestEngine(book, grid)
	cur := NewCursor()
	cur.Slot = 19

	process(t, e, cur, "【甲乙丙】")
	require.Equal(t, 21, cur.Slot)

	a20, _ := grid.Annotation(20)
	m20, _ := grid.Main(20)
	a21, _ := grid.Annotation(21)
	xs := []float64{a20.X, m20.X, a21.X}
	for i, g := range cur.Page.Glyphs {
		require.InDelta(t, xs[i]+10, g.X, 1e-9, "glyph %d", i)
	}
}

func TestAnnotationContinuesOnNextPage(t *testing.T) {
	book := testBook(20)
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))
	cur := NewCursor()

	process(t, e, cur, strings.Repeat("天", 39)+"【甲乙丙丁】")
	require.Len(t, cur.Pages, 1)
	require.Len(t, cur.Pages[0].Glyphs, 41)
	require.Equal(t, 2, cur.Page.Number)
	require.Len(t, cur.Page.Glyphs, 2)
	require.Equal(t, 1, cur.Slot)
}

func TestAnnotationAtFullPage(t *testing.T) {
	book := testBook(20)
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))
	cur := NewCursor()

	process(t, e, cur, strings.Repeat("天", 40)+"【甲】")
	require.Len(t, cur.Pages, 1)
	require.Equal(t, 1, cur.Slot)
	require.Len(t, cur.Page.Glyphs, 1)
}

func TestAnnotationNopMarks(t *testing.T) {
	book := testBook(20)
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))
	cur := NewCursor()

	process(t, e, cur, "【甲。】")
	require.Equal(t, 1, cur.Slot)
	require.Len(t, cur.Page.Glyphs, 2)
	require.Equal(t, 15.0, cur.Page.Glyphs[1].FontSize)

	// 只有不占格标点且没有落点时直接丢弃
	cur = NewCursor()
	process(t, e, cur, "【。，】")
	require.Equal(t, 0, cur.Slot)
	require.Empty(t, cur.Page.Glyphs)
	require.Empty(t, cur.Pending)
}

func TestAnnotationBookline(t *testing.T) {
	book := testBook(20)
	book.BookLineFlag = true
	book.BookLine = &config.BookLine{Width: 1, Color: config.Black}
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))
	cur := NewCursor()

	process(t, e, cur, "【《甲乙》丙】")
	require.Equal(t, 2, cur.Slot)
	require.Len(t, cur.Page.Glyphs, 3)
	require.Len(t, cur.Page.Lines, 2)
	require.False(t, cur.BooklineActive)
}

func TestAnnotationRotatedMark(t *testing.T) {
	book := testBook(20)
	book.Punctuation.CommentRotate = config.MarkAdjust{Chars: []rune("："), Scale: 0.8}
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))
	cur := NewCursor()

	process(t, e, cur, "【甲：】")
	require.Equal(t, 1, cur.Slot)
	rot := cur.Page.Glyphs[1]
	require.Equal(t, -90.0, rot.RotateDeg)
	require.InDelta(t, 24.0, rot.FontSize, 1e-9)
}

func TestAnnotationNopWinsOverRotated(t *testing.T) {
	book := testBook(20)
	book.Punctuation.CommentRotate = config.MarkAdjust{Chars: []rune("："), Scale: 0.8}
	book.Punctuation.CommentNop.Chars = append(book.Punctuation.CommentNop.Chars, '：')
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))
	cur := NewCursor()

	process(t, e, cur, "【甲乙：】")
	require.Equal(t, 1, cur.Slot)
	require.Len(t, cur.Page.Glyphs, 3)
	require.Zero(t, cur.Page.Glyphs[2].RotateDeg)
}

func TestAnnotationUnclosedBracket(t *testing.T) {
	book := testBook(20)
	e := newTestEngine(book, mustGrid(book, testCanvas(2), MultiRowMode{}))
	cur := NewCursor()

	process(t, e, cur, "甲【乙丙")
	require.Equal(t, 2, cur.Slot)
	require.Len(t, cur.Page.Glyphs, 3)
}
