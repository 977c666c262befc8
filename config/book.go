package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxFontSlots 是 font1..font5 的数量。
const MaxFontSlots = 5

// FontSlot 描述一个字体槽位，ID 从 1 开始。
type FontSlot struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	RotateDeg   float64 `json:"rotate_deg"`
	TextSize    float64 `json:"text_size"`
	CommentSize float64 `json:"comment_size"`
}

// FontMapping 保存槽位与正文、批注的字体优先级栈。
type FontMapping struct {
	Slots        [MaxFontSlots]*FontSlot
	TextStack    []int
	CommentStack []int
}

// Slot 返回 id 对应的槽位，id 越界或未配置时返回 nil。
func (m FontMapping) Slot(id int) *FontSlot {
	if id < 1 || id > MaxFontSlots {
		return nil
	}
	return m.Slots[id-1]
}

type CoverStyle struct {
	TitleFontSize  float64
	TitleY         float64
	AuthorFontSize float64
	AuthorY        float64
	Color          Color
}

type TitleStyle struct {
	Center    bool
	Postfix   string
	Directory bool
	FontSize  float64
	Color     Color
	Y         float64
	YDis      float64
}

type PagerStyle struct {
	FontSize float64
	Color    Color
	Y        float64
}

// ReplacePair 表示单字符到字符串的替换。
type ReplacePair struct {
	From rune
	To   string
}

type ReplacementRules struct {
	CommaPairs   []ReplacePair
	NumberPairs  []ReplacePair
	DeleteTokens []string
}

type TextModes struct {
	RemovePunctuations bool
	RemoveTokens       []string
	OnlyPeriod         bool
	OnlyPeriodTokens   []string
	OnlyPeriodColor    *Color
}

// MarkAdjust 描述一组标点的缩放与偏移，偏移以列宽、行高为单位。
type MarkAdjust struct {
	Chars   []rune
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Contains 判断 r 是否属于该组标点。
func (m MarkAdjust) Contains(r rune) bool {
	for _, c := range m.Chars {
		if c == r {
			return true
		}
	}
	return false
}

type Punctuation struct {
	TextNop           MarkAdjust
	TextRotate        MarkAdjust
	CommentNop        MarkAdjust
	CommentRotate     MarkAdjust
	CommentStripChars []rune
}

type BookLine struct {
	Width float64
	Color Color
}

// Book 对应 books/<id>/book.cfg。
type Book struct {
	Title                     string
	Author                    string
	CanvasID                  string
	RowNum                    int
	RowDeltaY                 float64
	MultiRowsHorizontalLayout int
	Fonts                     FontMapping
	TryST                     bool
	TextFontColor             Color
	CommentFontColor          Color
	Cover                     CoverStyle
	TitleStyle                TitleStyle
	Pager                     PagerStyle
	Replacements              ReplacementRules
	TextModes                 TextModes
	Punctuation               Punctuation
	// BookLine 仅在 if_book_vline=1 时非空。
	BookLine     *BookLine
	BookLineFlag bool
	TextEncoding string
	OutputName   string
}

// DefaultOutputName 是未配置 output_name 时的文件名模板。
const DefaultOutputName = "《${title}》文本${from}至${to}.pdf"

// LoadBook 读取并解析书籍配置。
func LoadBook(path string) (*Book, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	return BookFromRaw(raw)
}

// BookFromRaw 由键值表构造书籍配置。
func BookFromRaw(raw *Raw) (*Book, error) {
	b := &Book{}
	var err error
	if b.Title, err = raw.Require("title"); err != nil {
		return nil, err
	}
	if b.Author, err = raw.Require("author"); err != nil {
		return nil, err
	}
	if b.CanvasID, err = raw.Require("canvas_id"); err != nil {
		return nil, err
	}
	if b.RowNum, err = requireInt(raw, "row_num"); err != nil {
		return nil, err
	}
	b.RowDeltaY = floatOr(raw.Lookup("row_delta_y"), 0)
	b.MultiRowsHorizontalLayout = intOr(raw.Lookup("multirows_horizontal_layout"), 1)

	b.Fonts = parseFontMapping(raw)
	if len(b.Fonts.TextStack) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "text_fonts_array 为空")
	}
	if len(b.Fonts.CommentStack) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "comment_fonts_array 为空")
	}

	b.TryST = parseBool(raw.Lookup("try_st"))
	colors := []struct {
		key string
		dst *Color
	}{
		{"text_font_color", &b.TextFontColor},
		{"comment_font_color", &b.CommentFontColor},
		{"cover_font_color", &b.Cover.Color},
		{"title_font_color", &b.TitleStyle.Color},
		{"pager_font_color", &b.Pager.Color},
	}
	for _, c := range colors {
		if *c.dst, err = colorOr(raw, c.key, Black); err != nil {
			return nil, err
		}
	}

	b.Cover.TitleFontSize = floatOr(raw.Lookup("cover_title_font_size"), 120)
	b.Cover.TitleY = floatOr(raw.Lookup("cover_title_y"), 200)
	b.Cover.AuthorFontSize = floatOr(raw.Lookup("cover_author_font_size"), 60)
	b.Cover.AuthorY = floatOr(raw.Lookup("cover_author_y"), 600)

	b.TitleStyle.Center = parseBool(raw.Lookup("if_tpcenter"))
	b.TitleStyle.Postfix = strings.TrimSpace(raw.Lookup("title_postfix"))
	b.TitleStyle.Directory = parseBool(raw.Lookup("title_directory"))
	b.TitleStyle.FontSize = floatOr(raw.Lookup("title_font_size"), 80)
	b.TitleStyle.Y = floatOr(raw.Lookup("title_y"), 1200)
	b.TitleStyle.YDis = floatOr(raw.Lookup("title_ydis"), 1.2)

	b.Pager.FontSize = floatOr(raw.Lookup("pager_font_size"), 35)
	b.Pager.Y = floatOr(raw.Lookup("pager_y"), 500)

	b.Replacements = ReplacementRules{
		CommaPairs:   parseReplacePairs(raw.Lookup("exp_replace_comma")),
		NumberPairs:  parseReplacePairs(raw.Lookup("exp_replace_number")),
		DeleteTokens: parseTokenList(raw.Lookup("exp_delete_comma")),
	}

	b.TextModes = TextModes{
		RemovePunctuations: parseBool(raw.Lookup("if_nocomma")),
		RemoveTokens:       parseTokenList(raw.Lookup("exp_nocomma")),
		OnlyPeriod:         parseBool(raw.Lookup("if_onlyperiod")),
		OnlyPeriodTokens:   parseTokenList(raw.Lookup("exp_onlyperiod")),
	}
	if v := raw.Lookup("onlyperiod_color"); v != "" {
		c, err := ParseColor(v)
		if err != nil {
			return nil, errors.Wrap(err, "onlyperiod_color")
		}
		b.TextModes.OnlyPeriodColor = &c
	}

	b.Punctuation = Punctuation{
		TextNop:           markAdjust(raw, "text_comma_nop"),
		TextRotate:        markAdjust(raw, "text_comma_90"),
		CommentNop:        markAdjust(raw, "comment_comma_nop"),
		CommentRotate:     markAdjust(raw, "comment_comma_90"),
		CommentStripChars: pipeChars(raw.Lookup("comment_comma_nop")),
	}

	b.BookLineFlag = parseBool(raw.Lookup("if_book_vline"))
	if b.BookLineFlag {
		lineColor, err := colorOr(raw, "book_line_color", Black)
		if err != nil {
			return nil, err
		}
		b.BookLine = &BookLine{
			Width: floatOr(raw.Lookup("book_line_width"), 1),
			Color: lineColor,
		}
	}

	b.TextEncoding = strings.ToLower(raw.Lookup("text_encoding"))
	b.OutputName = raw.Lookup("output_name")
	if b.OutputName == "" {
		b.OutputName = DefaultOutputName
	}
	return b, nil
}

// Validate 检查排版前必须满足的约束。
func (b *Book) Validate() error {
	switch {
	case b.RowNum <= 0:
		return errors.Wrap(ErrInvalidConfig, "row_num 必须大于 0")
	case len(b.Fonts.TextStack) == 0:
		return errors.Wrap(ErrInvalidConfig, "text_fonts_array 不能为空")
	case b.Cover.TitleFontSize <= 0 || b.Cover.AuthorFontSize <= 0:
		return errors.Wrap(ErrInvalidConfig, "封面字号必须大于 0")
	case b.TitleStyle.FontSize <= 0:
		return errors.Wrap(ErrInvalidConfig, "标题字号必须大于 0")
	case b.Pager.FontSize <= 0:
		return errors.Wrap(ErrInvalidConfig, "页码字号必须大于 0")
	}
	for _, id := range b.Fonts.TextStack {
		if b.Fonts.Slot(id) == nil {
			return errors.Wrapf(ErrInvalidConfig, "text_fonts_array 引用了未配置的 font%d", id)
		}
	}
	for _, id := range b.Fonts.CommentStack {
		if b.Fonts.Slot(id) == nil {
			return errors.Wrapf(ErrInvalidConfig, "comment_fonts_array 引用了未配置的 font%d", id)
		}
	}
	return nil
}

func parseFontMapping(raw *Raw) FontMapping {
	var m FontMapping
	for id := 1; id <= MaxFontSlots; id++ {
		name := raw.Lookup(fmt.Sprintf("font%d", id))
		if name == "" {
			continue
		}
		m.Slots[id-1] = &FontSlot{
			ID:          id,
			Name:        name,
			RotateDeg:   floatOr(raw.Lookup(fmt.Sprintf("font%d_rotate", id)), 0),
			TextSize:    floatOr(raw.Lookup(fmt.Sprintf("text_font%d_size", id)), 60),
			CommentSize: floatOr(raw.Lookup(fmt.Sprintf("comment_font%d_size", id)), 30),
		}
	}
	m.TextStack = parseStack(raw.Lookup("text_fonts_array"))
	m.CommentStack = parseStack(raw.Lookup("comment_fonts_array"))
	return m
}

// parseStack 把 "312" 这样的数字串转为槽位列表，忽略 1..5 以外的字符。
func parseStack(v string) []int {
	var stack []int
	for _, r := range v {
		if r >= '1' && r <= '0'+MaxFontSlots {
			stack = append(stack, int(r-'0'))
		}
	}
	return stack
}

func requireInt(raw *Raw, key string) (int, error) {
	v, err := raw.Require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(ErrInvalidValue, "%s 需要非负整数，实际为 %q", key, v)
	}
	return n, nil
}

func requireFloat(raw *Raw, key string) (float64, error) {
	v, err := raw.Require(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidValue, "%s 需要数字，实际为 %q", key, v)
	}
	return f, nil
}

func floatOr(v string, def float64) float64 {
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func intOr(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseBool(v string) bool {
	return strings.TrimSpace(v) == "1"
}

func colorOr(raw *Raw, key string, def Color) (Color, error) {
	v := raw.Lookup(key)
	if v == "" {
		return def, nil
	}
	c, err := ParseColor(v)
	if err != nil {
		return Color{}, errors.Wrap(err, key)
	}
	return c, nil
}

func parseReplacePairs(v string) []ReplacePair {
	var pairs []ReplacePair
	for _, item := range strings.Split(v, "|") {
		runes := []rune(item)
		if len(runes) < 2 {
			continue
		}
		pairs = append(pairs, ReplacePair{From: runes[0], To: string(runes[1:])})
	}
	return pairs
}

func parseTokenList(v string) []string {
	var tokens []string
	for _, t := range strings.Split(v, "|") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// pipeChars 取每个 | 分隔项的首字符。
func pipeChars(v string) []rune {
	var chars []rune
	for _, t := range strings.Split(v, "|") {
		for _, r := range t {
			chars = append(chars, r)
			break
		}
	}
	return chars
}

func markAdjust(raw *Raw, key string) MarkAdjust {
	v := raw.Lookup(key)
	m := MarkAdjust{
		Scale:   floatOr(raw.Lookup(key+"_size"), 1),
		OffsetX: floatOr(raw.Lookup(key+"_x"), 0),
		OffsetY: floatOr(raw.Lookup(key+"_y"), 0),
	}
	if strings.Contains(v, "|") {
		m.Chars = pipeChars(v)
	} else {
		m.Chars = []rune(v)
	}
	return m
}
