package renderer

import (
	"github.com/ByLCY/vrain/config"
	"github.com/ByLCY/vrain/layout"
	"github.com/ByLCY/vrain/numeral"
)

// Chrome 计算版心以外的文字：书口标题、页码与生成封面。
// 这些文字都使用正文字体栈的第一个槽位，竖排绘制。
type Chrome struct {
	Book     *config.Book
	Canvas   *config.Canvas
	Numerals layout.NumeralRenderer
}

func (c Chrome) slot() int {
	if len(c.Book.Fonts.TextStack) == 0 {
		return 0
	}
	return c.Book.Fonts.TextStack[0]
}

// PageGlyphs 返回某页的书口标题与页码字形。
func (c Chrome) PageGlyphs(page layout.PagePlan) []layout.GlyphPlacement {
	slot := c.slot()
	if slot == 0 {
		return nil
	}
	ts := c.Book.TitleStyle
	var out []layout.GlyphPlacement

	x := 0.0
	if ts.Center {
		x = c.Canvas.Width/2 - ts.FontSize/2
	}
	for idx, ch := range []rune(page.Title) {
		out = append(out, layout.GlyphPlacement{
			Char:     string(ch),
			FontSlot: slot,
			FontSize: ts.FontSize,
			X:        x,
			Y:        ts.Y - ts.FontSize*float64(idx)*ts.YDis,
			Color:    ts.Color,
		})
	}

	ps := c.Book.Pager
	number := numeral.Digits(page.Number)
	if c.Numerals != nil {
		number = c.Numerals.Render(page.Number)
	}
	for idx, ch := range []rune(number) {
		out = append(out, layout.GlyphPlacement{
			Char:     string(ch),
			FontSlot: slot,
			FontSize: ps.FontSize,
			X:        c.Canvas.Width/2 - ps.FontSize/2,
			Y:        ps.Y - ps.FontSize*float64(idx)*ts.YDis,
			Color:    ps.Color,
		})
	}
	return out
}

// CoverGlyphs 返回生成封面上竖排的书名与作者。
func (c Chrome) CoverGlyphs() []layout.GlyphPlacement {
	slot := c.slot()
	if slot == 0 {
		return nil
	}
	cs := c.Book.Cover
	var out []layout.GlyphPlacement
	for idx, ch := range []rune(c.Book.Title) {
		out = append(out, layout.GlyphPlacement{
			Char:     string(ch),
			FontSlot: slot,
			FontSize: cs.TitleFontSize,
			X:        cs.TitleFontSize,
			Y:        c.Canvas.Height - cs.TitleY - float64(idx)*cs.TitleFontSize*1.2,
			Color:    cs.Color,
		})
	}
	for idx, ch := range []rune(c.Book.Author) {
		out = append(out, layout.GlyphPlacement{
			Char:     string(ch),
			FontSlot: slot,
			FontSize: cs.AuthorFontSize,
			X:        cs.AuthorFontSize / 2,
			Y:        c.Canvas.Height - cs.AuthorY - float64(idx)*cs.AuthorFontSize*1.2,
			Color:    cs.Color,
		})
	}
	return out
}

// Bookmarks 按页码聚合目录项；未开启 title_directory 时返回 nil。
func (c Chrome) Bookmarks(plan *layout.DocumentPlan) map[int][]string {
	if !c.Book.TitleStyle.Directory {
		return nil
	}
	out := map[int][]string{}
	for _, o := range plan.Outlines {
		out[o.Page] = append(out[o.Page], o.Title)
	}
	return out
}
