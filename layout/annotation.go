package layout

import "github.com/pkg/errors"

// 夹注：小字双行，两个字占一个正文格位，先排右半列再排左半列，不跨列。

type packResult int

const (
	packPlaced packResult = iota
	packNeedsNewPage
	packExhausted
)

type annotationState struct {
	queue    []rune
	last     *Point
	bookline bool
}

// layoutAnnotation 排入一段夹注，返回未能排入的剩余字符。
func (e *Engine) layoutAnnotation(queue []rune, title string, cur *Cursor) ([]rune, error) {
	st := &annotationState{queue: queue}
	for len(st.queue) > 0 {
		res, err := e.packColumn(st, cur)
		if err != nil {
			return nil, err
		}
		switch res {
		case packNeedsNewPage:
			e.finalize(cur, title)
			st.last = nil
		case packExhausted:
			return st.queue, nil
		}
	}
	return nil, nil
}

// packColumn 在当前列剩余的格位里排入尽可能多的夹注字符。
func (e *Engine) packColumn(st *annotationState, cur *Cursor) (packResult, error) {
	capacity := e.grid.Capacity()
	if cur.Slot >= capacity {
		return packNeedsNewPage, nil
	}
	rpc := e.grid.RowsPerColumn
	available := rpc - cur.Slot%rpc
	if available <= 0 {
		return packNeedsNewPage, nil
	}

	needed := (e.countConsuming(st.queue) + 1) / 2
	if needed == 0 {
		for _, ch := range st.queue {
			if e.skipsBookline(ch) || st.last == nil || e.commentMark(ch) != markNop {
				continue
			}
			if g, ok := e.buildGlyph(*st.last, ch, true, markNop); ok {
				cur.Page.Glyphs = append(cur.Page.Glyphs, g)
			}
		}
		st.queue = nil
		return packExhausted, nil
	}

	take := min(available, needed)
	if cur.Slot+take > capacity {
		return packNeedsNewPage, nil
	}

	var taken []rune
	want := take * 2
	for len(st.queue) > 0 && want > 0 {
		ch := st.queue[0]
		st.queue = st.queue[1:]
		if e.consumesAnnotationSlot(ch) {
			want--
		}
		taken = append(taken, ch)
	}

	positions := make([]Point, 0, take*2)
	for _, lookup := range []func(int) (Point, bool){e.grid.Annotation, e.grid.Main} {
		for off := 1; off <= take; off++ {
			p, ok := lookup(cur.Slot + off)
			if !ok {
				st.queue = append(taken, st.queue...)
				return packNeedsNewPage, nil
			}
			positions = append(positions, p)
		}
	}

	placed := 0
	for idx, ch := range taken {
		if e.skipsBookline(ch) {
			st.bookline = ch == booklineOpen
			continue
		}
		kind := e.commentMark(ch)
		if kind == markNop {
			if st.last != nil {
				if g, ok := e.buildGlyph(*st.last, ch, true, markNop); ok {
					cur.Page.Glyphs = append(cur.Page.Glyphs, g)
				}
			}
			continue
		}
		if placed >= len(positions) {
			st.queue = append(append([]rune(nil), taken[idx:]...), st.queue...)
			break
		}
		pos := positions[placed]
		placed++
		st.last = &pos
		if g, ok := e.buildGlyph(pos, ch, true, kind); ok {
			cur.Page.Glyphs = append(cur.Page.Glyphs, g)
		}
		if st.bookline && ch != ' ' {
			e.appendBookline(&cur.Page, pos)
		}
	}

	if placed == 0 {
		return packPlaced, errors.Wrapf(ErrSlotOutOfRange, "夹注在格位 %d 未能落字", cur.Slot)
	}
	cur.Slot += (placed + 1) / 2
	return packPlaced, nil
}

func (e *Engine) skipsBookline(ch rune) bool {
	return e.book.BookLineFlag && (ch == booklineOpen || ch == booklineClose)
}

func (e *Engine) consumesAnnotationSlot(ch rune) bool {
	return !e.skipsBookline(ch) && e.commentMark(ch) != markNop
}

func (e *Engine) countConsuming(queue []rune) int {
	n := 0
	for _, ch := range queue {
		if e.consumesAnnotationSlot(ch) {
			n++
		}
	}
	return n
}
