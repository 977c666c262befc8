package layout

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ByLCY/vrain/config"
)

const (
	prefaceMark  = "序"
	appendixMark = "附"
	// ordinalToken 在 title_postfix 中被替换为汉字序号。
	ordinalToken = "X"
)

// Typesetter 按章节顺序驱动 Engine，生成整本书的 DocumentPlan。
type Typesetter struct {
	book   *config.Book
	caps   Capabilities
	opts   Options
	engine *Engine
}

// NewTypesetter 组装排版器。try_st 未开启时忽略 caps.Variants。
func NewTypesetter(book *config.Book, grid *Grid, caps Capabilities, opts Options) (*Typesetter, error) {
	switch {
	case book == nil || grid == nil:
		return nil, errors.New("排版器缺少书籍配置或版面网格")
	case caps.Glyphs == nil:
		return nil, errors.New("排版器缺少字体能力 GlyphChecker")
	case caps.Corpus == nil:
		return nil, errors.New("排版器缺少正文 Corpus")
	case caps.Numerals == nil:
		return nil, errors.New("排版器缺少数字表 NumeralRenderer")
	case opts.To < opts.From:
		return nil, errors.Errorf("章节范围无效：%d 至 %d", opts.From, opts.To)
	}
	resolver := Resolver{Glyphs: caps.Glyphs}
	if book.TryST {
		resolver.Variants = caps.Variants
	}
	return &Typesetter{
		book:   book,
		caps:   caps,
		opts:   opts,
		engine: NewEngine(book, grid, resolver, opts),
	}, nil
}

// BuildPlan 依次排版 From..To 的各篇正文。
func (t *Typesetter) BuildPlan() (*DocumentPlan, error) {
	plan := &DocumentPlan{Cover: CoverGenerated}
	if t.opts.CoverImage != "" {
		plan.Cover = CoverImage
		plan.CoverPath = t.opts.CoverImage
	}

	cur := NewCursor()
	for idx := t.opts.From; idx <= t.opts.To; idx++ {
		text, err := t.caps.Corpus.Entry(idx)
		if err != nil {
			return nil, err
		}
		title := t.ChapterTitle(idx)

		if len(cur.Page.Glyphs) > 0 {
			cur.Pages = append(cur.Pages, cur.Page)
			cur.GeneratedPages++
			if t.opts.reachedLimit(cur.GeneratedPages) {
				cur.Page = PagePlan{}
				break
			}
			cur.NextPageNumber++
			cur.Page = PagePlan{Number: cur.NextPageNumber, Title: title}
			cur.Slot = 0
		} else {
			cur.Page.Title = title
		}

		plan.Outlines = append(plan.Outlines, OutlineEntry{Title: title, Page: cur.Page.Number})
		if err := t.engine.Process(text, title, cur); err != nil {
			return nil, errors.Wrapf(err, "排版第 %d 篇失败", idx)
		}
		if t.opts.reachedLimit(cur.GeneratedPages) {
			break
		}
	}

	if len(cur.Page.Glyphs) > 0 && !t.opts.reachedLimit(cur.GeneratedPages) {
		cur.Pages = append(cur.Pages, cur.Page)
	}
	plan.Pages = cur.Pages
	return plan, nil
}

// ChapterTitle 计算书口标题：书名加卷次后缀。
func (t *Typesetter) ChapterTitle(ordinal int) string {
	postfix := t.book.TitleStyle.Postfix
	if postfix == "" {
		return t.book.Title
	}
	id := ordinal
	if t.caps.Corpus.HasPrologue() && id > 0 {
		id--
	}
	switch {
	case id == 0:
		postfix = prefaceMark
	case t.caps.Corpus.HasAppendix() && ordinal == t.caps.Corpus.HighestOrdinal():
		postfix = appendixMark
	case strings.Contains(postfix, ordinalToken):
		postfix = strings.ReplaceAll(postfix, ordinalToken, t.caps.Numerals.Render(id))
	}
	return t.book.Title + postfix
}
