package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/vrain/config"
)

const sampleCfg = `
# 书籍配置
title = 史记
author	= 司马迁   # 作者
row_num=30
text_font_color=#FF0000
exp_replace_comma = ，、|：、
formula = a=b
title_postfix = 卷 X
　indent　= 1
row_num = 24
`

func TestParseEntries(t *testing.T) {
	ast, err := config.ParseString(sampleCfg)
	require.NoError(t, err)

	raw := config.NewRaw("sample", ast)

	cases := map[string]string{
		"title":             "史记",
		"author":            "司马迁",
		"text_font_color":   "#FF0000",
		"exp_replace_comma": "，、|：、",
		"formula":           "a=b",
		"title_postfix":     "卷X",
		"indent":            "1",
		"row_num":           "24",
	}
	for key, want := range cases {
		got, ok := raw.Get(key)
		require.Truef(t, ok, "missing key %s", key)
		require.Equalf(t, want, got, "key %s", key)
	}
}

func TestParseKeyWithoutValue(t *testing.T) {
	ast, err := config.ParseString("logo_text\nempty =\n")
	require.NoError(t, err)

	raw := config.NewRaw("sample", ast)
	v, ok := raw.Get("logo_text")
	require.True(t, ok)
	require.Empty(t, v)
	v, ok = raw.Get("empty")
	require.True(t, ok)
	require.Empty(t, v)
}

func TestParseSkipsLinesWithoutKey(t *testing.T) {
	ast, err := config.ParseString("title=a\n=orphan\n==\n=#fff\n =\nrow_num=20\n")
	require.NoError(t, err)

	raw := config.NewRaw("sample", ast)
	require.Equal(t, "a", raw.Lookup("title"))
	require.Equal(t, "20", raw.Lookup("row_num"))
	_, ok := raw.Get("")
	require.False(t, ok)
}

func TestParseCommentOnlyHashIsDropped(t *testing.T) {
	ast, err := config.ParseString("pager_font_color = #00FF00\n")
	require.NoError(t, err)

	v, ok := config.NewRaw("sample", ast).Get("pager_font_color")
	require.True(t, ok)
	require.Empty(t, v, "'= #' 不构成颜色值，# 之后视为注释")
}

func TestRequireMissingKey(t *testing.T) {
	ast, err := config.ParseString("a = 1\n")
	require.NoError(t, err)

	_, err = config.NewRaw("sample", ast).Require("b")
	require.ErrorIs(t, err, config.ErrMissingKey)
}
