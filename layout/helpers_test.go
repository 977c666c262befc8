package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vrain/config"
)

// stubGlyphs 认为所有槽位都有全部字符，除非列在 missing 中。
type stubGlyphs struct {
	missing map[int]string
}

func (s stubGlyphs) HasGlyph(slot int, r rune) bool {
	if slot < 1 || slot > config.MaxFontSlots {
		return false
	}
	return !strings.ContainsRune(s.missing[slot], r)
}

type stubVariants map[rune][2]rune

func (s stubVariants) Convert(r rune, to Script) rune {
	if v, ok := s[r]; ok {
		return v[to]
	}
	return r
}

type stubNumerals struct{}

func (stubNumerals) Render(n int) string {
	digits := []rune("〇一二三四五六七八九")
	var b strings.Builder
	for _, d := range fmt.Sprint(n) {
		b.WriteRune(digits[d-'0'])
	}
	return b.String()
}

type stubCorpus struct {
	entries  map[int]string
	prologue bool
	appendix bool
}

func (c stubCorpus) Entry(ordinal int) (string, error) {
	text, ok := c.entries[ordinal]
	if !ok {
		return "", fmt.Errorf("第 %d 篇不存在", ordinal)
	}
	return text, nil
}

func (c stubCorpus) HasPrologue() bool { return c.prologue }
func (c stubCorpus) HasAppendix() bool { return c.appendix }

func (c stubCorpus) HighestOrdinal() int {
	high := 0
	for k := range c.entries {
		high = max(high, k)
	}
	return high
}

func testBook(rows int) *config.Book {
	return &config.Book{
		Title:  "史记",
		Author: "司马迁",
		RowNum: rows,
		Fonts: config.FontMapping{
			Slots: [config.MaxFontSlots]*config.FontSlot{
				{ID: 1, Name: "main.ttf", TextSize: 60, CommentSize: 30},
				{ID: 2, Name: "fallback.ttf", TextSize: 58, CommentSize: 28},
			},
			TextStack:    []int{1, 2},
			CommentStack: []int{1, 2},
		},
		TextFontColor:    config.Black,
		CommentFontColor: config.RGB8(80, 80, 80),
		Punctuation: config.Punctuation{
			TextNop:       config.MarkAdjust{Chars: []rune("，。"), Scale: 0.5, OffsetX: 0.6, OffsetY: 0.2},
			TextRotate:    config.MarkAdjust{Chars: []rune("：；"), Scale: 1, OffsetY: 0.1},
			CommentNop:    config.MarkAdjust{Chars: []rune("，。"), Scale: 0.5},
			CommentRotate: config.MarkAdjust{Scale: 1},
		},
	}
}

// testCanvas 的列宽与行高在 rows=20、cols=2 时均为 100。
func testCanvas(cols int) *config.Canvas {
	return &config.Canvas{
		Width:           float64(cols)*100 + 40,
		Height:          2000,
		LeafCol:         cols,
		LeafCenterWidth: 40,
	}
}

func newTestEngine(book *config.Book, grid *Grid) *Engine {
	return NewEngine(book, grid, Resolver{Glyphs: stubGlyphs{}}, Options{})
}

func mustGrid(book *config.Book, canvas *config.Canvas, mode MultiRowMode) *Grid {
	g, err := BuildGrid(book, canvas, mode)
	if err != nil {
		panic(err)
	}
	return g
}

func pad(n int) string { return strings.Repeat(" ", n) }
