package layout

import (
	"context"
	"log/slog"
)

// Options 控制一次排版的章节范围与调试行为。
type Options struct {
	From int
	To   int
	// TestPages 大于 0 时，生成的页数达到该值即停止。
	TestPages int
	Verbose   bool
	// CoverImage 非空时封面使用该图片。
	CoverImage string
	Logger     *slog.Logger
}

// GlyphChecker 判断某个字体槽位是否包含字符。
type GlyphChecker interface {
	HasGlyph(slot int, r rune) bool
}

// Script 标识繁简转换的目标。
type Script int

const (
	ScriptTraditional Script = iota
	ScriptSimplified
)

// Converter 将单个字符转换为目标字形，无法转换时原样返回。
type Converter interface {
	Convert(r rune, to Script) rune
}

// NumeralRenderer 将序号渲染为汉字数字。
type NumeralRenderer interface {
	Render(n int) string
}

// Corpus 提供预处理后的各篇正文。
type Corpus interface {
	Entry(ordinal int) (string, error)
	HasPrologue() bool
	HasAppendix() bool
	HighestOrdinal() int
}

// Capabilities 汇总排版依赖的外部能力。
type Capabilities struct {
	Glyphs   GlyphChecker
	Variants Converter
	Numerals NumeralRenderer
	Corpus   Corpus
}

// nopHandler 丢弃所有日志记录，未注入 Logger 时排版保持静默。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(nopHandler{})
}

func (o Options) reachedLimit(generated int) bool {
	return o.TestPages > 0 && generated >= o.TestPages
}
