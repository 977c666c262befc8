// Package preprocess 把原始正文整理成排版引擎使用的字符流，并在每行末尾补齐空格，
// 使下一行总是从新的一列开始。
package preprocess

import (
	"strings"
	"unicode"

	"github.com/ByLCY/vrain/config"
)

const (
	// blankMarker 在正文中表示一个空格位。
	blankMarker = "@"
	period      = "。"
)

// ProcessText 逐行处理一篇正文，返回拼接后的字符流。
func ProcessText(content string, book *config.Book) string {
	var b strings.Builder
	for _, raw := range strings.Split(content, "\n") {
		line := ProcessLine(raw, book)
		if line == "" {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// ProcessLine 处理单行，返回补齐空格后的结果；空行返回空串。
func ProcessLine(raw string, book *config.Book) string {
	line := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if line == "" {
		return ""
	}

	line = applyReplacements(line, book.Replacements)
	line = applyTextModes(line, book.TextModes)
	line = strings.ReplaceAll(line, blankMarker, " ")

	missing := MissingSpaces(SlotCount(line, book), book.RowNum)
	if missing > 0 && missing < book.RowNum {
		line += strings.Repeat(" ", missing)
	}
	return line
}

// SlotCount 计算一行占用的正文格位：去掉不占格标点与书名号后，
// 夹注按两字一格计，其余每字一格。
func SlotCount(line string, book *config.Book) int {
	drop := map[rune]bool{}
	for _, r := range book.Punctuation.TextNop.Chars {
		drop[r] = true
	}
	for _, r := range book.Punctuation.CommentStripChars {
		drop[r] = true
	}
	if book.BookLineFlag {
		drop['《'] = true
		drop['》'] = true
	}
	working := strings.Map(func(r rune) rune {
		if drop[r] {
			return -1
		}
		return r
	}, line)

	rest, annotation := stripAnnotations(working)
	return len([]rune(rest)) + annotation
}

// stripAnnotations 删除所有闭合的【…】，并返回夹注所需格位（每段向上取整）。
// 没有闭合的【保留在正文中按普通字符计数。
func stripAnnotations(s string) (string, int) {
	slots := 0
	for {
		start := strings.Index(s, "【")
		if start < 0 {
			return s, slots
		}
		inner := s[start+len("【"):]
		end := strings.Index(inner, "】")
		if end < 0 {
			return s, slots
		}
		slots += (len([]rune(inner[:end])) + 1) / 2
		s = s[:start] + inner[end+len("】"):]
	}
}

// MissingSpaces 返回补齐到 rowNum 整数倍所需的空格数。
func MissingSpaces(total, rowNum int) int {
	if rowNum <= 0 {
		return 0
	}
	if rem := total % rowNum; rem != 0 {
		return rowNum - rem
	}
	return 0
}

func applyReplacements(s string, rules config.ReplacementRules) string {
	for _, p := range rules.CommaPairs {
		s = strings.ReplaceAll(s, string(p.From), p.To)
	}
	for _, p := range rules.NumberPairs {
		s = strings.ReplaceAll(s, string(p.From), p.To)
	}
	for _, tok := range rules.DeleteTokens {
		if tok != "" {
			s = strings.ReplaceAll(s, tok, "")
		}
	}
	return s
}

func applyTextModes(s string, modes config.TextModes) string {
	if modes.RemovePunctuations {
		for _, tok := range modes.RemoveTokens {
			s = strings.ReplaceAll(s, tok, "")
		}
	}
	if !modes.OnlyPeriod {
		return s
	}
	for _, tok := range modes.OnlyPeriodTokens {
		s = strings.ReplaceAll(s, tok, period)
	}
	var b strings.Builder
	var last rune
	for _, r := range s {
		if r == '。' && (last == '。' || b.Len() == 0) {
			continue
		}
		last = r
		b.WriteRune(r)
	}
	return b.String()
}
