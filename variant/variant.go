// Package variant 提供字库缺字时的繁简回退转换。
package variant

import (
	"sync"

	"github.com/longbridgeapp/opencc"
	"github.com/pkg/errors"

	"github.com/ByLCY/vrain/layout"
)

// OpenCC 使用 opencc 词典做单字繁简转换。
type OpenCC struct {
	s2t *opencc.OpenCC
	t2s *opencc.OpenCC

	mu    sync.Mutex
	cache map[key]rune
}

type key struct {
	r  rune
	to layout.Script
}

// NewOpenCC 载入 s2t 与 t2s 两套词典。
func NewOpenCC() (*OpenCC, error) {
	s2t, err := opencc.New("s2t")
	if err != nil {
		return nil, errors.Wrap(err, "载入 opencc s2t 失败")
	}
	t2s, err := opencc.New("t2s")
	if err != nil {
		return nil, errors.Wrap(err, "载入 opencc t2s 失败")
	}
	return &OpenCC{s2t: s2t, t2s: t2s, cache: map[key]rune{}}, nil
}

// Convert 实现 layout.Converter。转换结果不是单个字符时原样返回。
func (c *OpenCC) Convert(r rune, to layout.Script) rune {
	k := key{r, to}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.cache[k]; ok {
		return v
	}

	conv := c.s2t
	if to == layout.ScriptSimplified {
		conv = c.t2s
	}
	out := r
	if s, err := conv.Convert(string(r)); err == nil {
		if rs := []rune(s); len(rs) == 1 {
			out = rs[0]
		}
	}
	c.cache[k] = out
	return out
}

// Table 是基于映射表的转换器，供测试与自带对照表使用。
type Table struct {
	ToTraditional map[rune]rune
	ToSimplified  map[rune]rune
}

// NewTable 由简繁对照串构造转换表，两串按字符一一对应。
func NewTable(simplified, traditional string) (*Table, error) {
	s, t := []rune(simplified), []rune(traditional)
	if len(s) != len(t) {
		return nil, errors.Errorf("简繁对照长度不一致：%d 与 %d", len(s), len(t))
	}
	tbl := &Table{ToTraditional: map[rune]rune{}, ToSimplified: map[rune]rune{}}
	for i := range s {
		if s[i] == t[i] {
			continue
		}
		tbl.ToTraditional[s[i]] = t[i]
		tbl.ToSimplified[t[i]] = s[i]
	}
	return tbl, nil
}

// Convert 实现 layout.Converter。
func (t *Table) Convert(r rune, to layout.Script) rune {
	m := t.ToTraditional
	if to == layout.ScriptSimplified {
		m = t.ToSimplified
	}
	if v, ok := m[r]; ok {
		return v
	}
	return r
}
