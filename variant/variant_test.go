package variant

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/vrain/layout"
)

func TestTableConvert(t *testing.T) {
	tbl, err := NewTable("国门天", "國門天")
	require.NoError(t, err)

	require.Equal(t, '國', tbl.Convert('国', layout.ScriptTraditional))
	require.Equal(t, '门', tbl.Convert('門', layout.ScriptSimplified))
	require.Equal(t, '天', tbl.Convert('天', layout.ScriptTraditional))
	// 已是目标字形时原样返回。
	require.Equal(t, '國', tbl.Convert('國', layout.ScriptTraditional))

	_, err = NewTable("国", "國門")
	require.Error(t, err)
}

func TestOpenCCConvert(t *testing.T) {
	c, err := NewOpenCC()
	require.NoError(t, err)

	require.Equal(t, '國', c.Convert('国', layout.ScriptTraditional))
	require.Equal(t, '国', c.Convert('國', layout.ScriptSimplified))
	require.Equal(t, '天', c.Convert('天', layout.ScriptSimplified))
	require.Equal(t, 'A', c.Convert('A', layout.ScriptTraditional))
}

func TestResolverUsesVariant(t *testing.T) {
	tbl, err := NewTable("国", "國")
	require.NoError(t, err)

	r := layout.Resolver{Glyphs: onlyGlyphs("國"), Variants: tbl}
	drawn, slot, ok := r.Resolve('国', []int{1})
	require.True(t, ok)
	require.Equal(t, '國', drawn)
	require.Equal(t, 1, slot)
}

type onlyGlyphs string

func (g onlyGlyphs) HasGlyph(_ int, r rune) bool {
	for _, c := range g {
		if c == r {
			return true
		}
	}
	return false
}
