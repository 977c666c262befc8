package layout

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/ByLCY/vrain/config"
)

// 控制符，由正文预处理阶段保留在文本流中。
const (
	markPageBreak  = '%' // 换页
	markHalfLeaf   = '$' // 跳到下半叶
	markNextBand   = '^' // 跳到下一栏
	markLastColumn = '&' // 跳到末列
	booklineOpen   = '《'
	booklineClose  = '》'
	annotationOpen = '【'
	annotationEnd  = '】'
)

type markKind int

const (
	markPlain markKind = iota
	markNop
	markRotated
)

// Cursor 是排版过程中跨章节共享的可变状态。
type Cursor struct {
	// Slot 为当前页已占用的格位数，0 表示尚未落字。
	Slot int
	// Last 是最近一个正文字符的位置，供不占格标点附着。
	Last           *Point
	Page           PagePlan
	Pages          []PagePlan
	NextPageNumber int
	GeneratedPages int
	BooklineActive bool
	// Pending 保存本章结束时仍未排入的夹注字符。
	Pending []rune
}

// NewCursor 返回从第 1 页开始的游标。
func NewCursor() *Cursor {
	return &Cursor{Page: PagePlan{Number: 1}, NextPageNumber: 1}
}

// Engine 逐字处理一章正文，把字符落到网格上。
type Engine struct {
	book     *config.Book
	grid     *Grid
	resolver Resolver
	opts     Options
	logger   *slog.Logger
}

// NewEngine 创建排版引擎。
func NewEngine(book *config.Book, grid *Grid, resolver Resolver, opts Options) *Engine {
	return &Engine{
		book:     book,
		grid:     grid,
		resolver: resolver,
		opts:     opts,
		logger:   opts.logger(),
	}
}

// Process 处理一章正文。达到测试页数上限时提前返回，调用方通过 Cursor.GeneratedPages 判断。
func (e *Engine) Process(text, title string, cur *Cursor) error {
	runes := []rune(text)
	cur.Last = nil
	cur.Pending = cur.Pending[:0]
	capacity := e.grid.Capacity()

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch ch {
		case '\n', '\r':
			continue
		case markPageBreak:
			i = e.skipRowPadding(runes, i)
			e.finalize(cur, title)
			cur.Last = nil
			if e.opts.reachedLimit(cur.GeneratedPages) {
				return nil
			}
			continue
		case markHalfLeaf:
			i = e.skipRowPadding(runes, i)
			half := capacity / 2
			switch {
			case cur.Slot == 0 || cur.Slot == half:
			case cur.Slot < half:
				cur.Slot = half
			default:
				cur.Slot = capacity
			}
			continue
		case markNextBand:
			if e.grid.Bands > 1 {
				band := e.grid.Columns * e.grid.RowsPerColumn
				next := (cur.Slot/band + 1) * band
				cur.Slot = min(next, capacity)
				cur.Last = nil
				continue
			}
		case markLastColumn:
			i = e.skipRowPadding(runes, i)
			lastColumn := max(capacity-e.grid.RowsPerColumn, 0)
			if cur.Slot <= lastColumn+1 {
				cur.Slot = lastColumn
			}
			continue
		case booklineOpen, booklineClose:
			cur.BooklineActive = ch == booklineOpen
			if e.book.BookLineFlag {
				continue
			}
		case annotationOpen:
			j := i + 1
			for j < len(runes) && runes[j] != annotationEnd {
				j++
			}
			queue := append(append([]rune(nil), cur.Pending...), runes[i+1:j]...)
			i = j
			if len(queue) == 0 {
				continue
			}
			rest, err := e.layoutAnnotation(queue, title, cur)
			if err != nil {
				return err
			}
			cur.Pending = rest
			cur.Last = nil
			continue
		}

		kind := e.textMark(ch)
		if kind != markNop && cur.Slot >= capacity {
			e.finalize(cur, title)
			cur.Last = nil
			if e.opts.reachedLimit(cur.GeneratedPages) {
				return nil
			}
		}

		if kind == markNop {
			pos := Point{}
			if cur.Last != nil {
				pos = *cur.Last
			} else if p, ok := e.grid.Main(max(cur.Slot, 1)); ok {
				pos = p
			}
			if g, ok := e.buildGlyph(pos, ch, false, markNop); ok {
				cur.Page.Glyphs = append(cur.Page.Glyphs, g)
			}
			continue
		}

		cur.Slot++
		pos, ok := e.grid.Main(cur.Slot)
		if !ok {
			return errors.Wrapf(ErrSlotOutOfRange, "正文格位 %d（每页 %d）", cur.Slot, capacity)
		}
		if g, ok := e.buildGlyph(pos, ch, false, kind); ok {
			if e.opts.Verbose && kind == markPlain {
				e.logger.Debug("落字", "page", cur.Page.Number, "slot", cur.Slot, "char", g.Char)
			}
			cur.Page.Glyphs = append(cur.Page.Glyphs, g)
			cur.Last = &pos
			if cur.BooklineActive && ch != ' ' {
				e.appendBookline(&cur.Page, pos)
			}
		}

		if kind == markPlain && cur.Slot == capacity && i+1 < len(runes) && e.textMark(runes[i+1]) == markNop {
			i++
			at := pos
			if cur.Last != nil {
				at = *cur.Last
			}
			if g, ok := e.buildGlyph(at, runes[i], false, markNop); ok {
				cur.Page.Glyphs = append(cur.Page.Glyphs, g)
			}
		}
	}
	return nil
}

// finalize 结束当前页。空页不会输出，也不占用页码。
func (e *Engine) finalize(cur *Cursor, title string) {
	if len(cur.Page.Glyphs) > 0 {
		cur.Pages = append(cur.Pages, cur.Page)
		cur.GeneratedPages++
		cur.NextPageNumber++
	}
	cur.Slot = 0
	cur.Page = PagePlan{Number: cur.NextPageNumber, Title: title}
}

// skipRowPadding 跳过控制符后预处理补齐的 row_num-1 个空格，返回新的下标。
func (e *Engine) skipRowPadding(runes []rune, i int) int {
	return min(i+max(e.book.RowNum-1, 0), len(runes)-1)
}

func (e *Engine) textMark(ch rune) markKind {
	p := e.book.Punctuation
	switch {
	case p.TextRotate.Contains(ch):
		return markRotated
	case p.TextNop.Contains(ch):
		return markNop
	}
	return markPlain
}

// commentMark 与 textMark 相反：夹注里同时列入两表的标点按不占格处理。
func (e *Engine) commentMark(ch rune) markKind {
	p := e.book.Punctuation
	switch {
	case p.CommentNop.Contains(ch):
		return markNop
	case p.CommentRotate.Contains(ch):
		return markRotated
	}
	return markPlain
}

func (e *Engine) appendBookline(page *PagePlan, pos Point) {
	bl := e.book.BookLine
	if !e.book.BookLineFlag || bl == nil {
		return
	}
	x := pos.X - bl.Width
	page.Lines = append(page.Lines, LinePlacement{
		X1:    x,
		Y1:    pos.Y - e.grid.RowHeight*0.3,
		X2:    x,
		Y2:    pos.Y + e.grid.RowHeight*0.7,
		Width: bl.Width,
		Color: bl.Color,
		Wavy:  true,
	})
}

// buildGlyph 计算字形的字体、字号、颜色与最终坐标。
func (e *Engine) buildGlyph(pos Point, ch rune, comment bool, kind markKind) (GlyphPlacement, bool) {
	stack := e.book.Fonts.TextStack
	if comment {
		stack = e.book.Fonts.CommentStack
	}
	drawn, slotID, ok := e.resolver.Resolve(ch, stack)
	if !ok {
		return GlyphPlacement{}, false
	}
	slot := e.book.Fonts.Slot(slotID)
	if slot == nil {
		return GlyphPlacement{}, false
	}

	size := slot.TextSize
	width := e.grid.ColumnWidth
	color := e.book.TextFontColor
	adjNop, adjRot := e.book.Punctuation.TextNop, e.book.Punctuation.TextRotate
	if comment {
		size = slot.CommentSize
		width /= 2
		color = e.book.CommentFontColor
		adjNop, adjRot = e.book.Punctuation.CommentNop, e.book.Punctuation.CommentRotate
	}
	if e.book.TextModes.OnlyPeriod && drawn == '。' && e.book.TextModes.OnlyPeriodColor != nil {
		color = *e.book.TextModes.OnlyPeriodColor
	}

	rh := e.grid.RowHeight
	x, y := pos.X, pos.Y
	rotate := slot.RotateDeg
	if kind == markPlain {
		x += (width - size) / 2
	}
	if comment {
		y += (rh - size) / 4
	}
	switch kind {
	case markNop:
		size *= adjNop.Scale
		x += width * adjNop.OffsetX
		y -= rh * adjNop.OffsetY
	case markRotated:
		size *= adjRot.Scale
		x += width * adjRot.OffsetX
		y += rh * adjRot.OffsetY
		rotate = -90
	}

	return GlyphPlacement{
		Char:      string(drawn),
		FontSlot:  slotID,
		FontSize:  size,
		X:         x,
		Y:         y,
		RotateDeg: rotate,
		Color:     color,
	}, true
}
