package layout

// Placeholder 在所有字体都缺字时代替原字符。
const Placeholder = '□'

// Resolver 按优先级栈为字符挑选字体槽位。
type Resolver struct {
	Glyphs GlyphChecker
	// Variants 为空时不尝试繁简转换。
	Variants Converter
}

func (r Resolver) pick(ch rune, stack []int) (int, bool) {
	if r.Glyphs == nil {
		return 0, false
	}
	for _, slot := range stack {
		if r.Glyphs.HasGlyph(slot, ch) {
			return slot, true
		}
	}
	return 0, false
}

// Resolve 返回实际绘制的字符与槽位。
// 依次尝试原字、繁体、简体，最后退回 Placeholder；仍然缺字时 ok 为 false。
func (r Resolver) Resolve(ch rune, stack []int) (drawn rune, slot int, ok bool) {
	if slot, ok := r.pick(ch, stack); ok {
		return ch, slot, true
	}
	if r.Variants != nil {
		for _, script := range []Script{ScriptTraditional, ScriptSimplified} {
			alt := r.Variants.Convert(ch, script)
			if alt == ch {
				continue
			}
			if slot, ok := r.pick(alt, stack); ok {
				return alt, slot, true
			}
		}
	}
	if slot, ok := r.pick(Placeholder, stack); ok {
		return Placeholder, slot, true
	}
	return ch, 0, false
}
