// Package numeral 把序号转换为汉字数字，用于卷次标题与页码。
package numeral

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var digits = [10]rune{'〇', '一', '二', '三', '四', '五', '六', '七', '八', '九'}

// Table 保存 num2zh_jid.txt 中的对照表。
type Table struct {
	m map[int]string
}

// New 返回空表，Render 全部走逐位替换。
func New() *Table {
	return &Table{m: map[int]string{}}
}

// LoadFile 读取 n|汉字 格式的对照表文件。
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "无法打开数字表 %s", path)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "读取数字表 %s 失败", path)
	}
	return t, nil
}

// Load 解析对照表；空行、# 注释以及无法解析的行被忽略。
func Load(r io.Reader) (*Table, error) {
	t := New()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 0 {
			continue
		}
		t.m[n] = parts[1]
	}
	return t, sc.Err()
}

// Set 写入或覆盖一项。
func (t *Table) Set(n int, s string) { t.m[n] = s }

// Lookup 查表，不做回退。
func (t *Table) Lookup(n int) (string, bool) {
	s, ok := t.m[n]
	return s, ok
}

// Render 优先查表，查不到时逐位替换（12 → 一二）。
func (t *Table) Render(n int) string {
	if t != nil {
		if s, ok := t.m[n]; ok {
			return s
		}
	}
	return Digits(n)
}

// Digits 逐位把阿拉伯数字替换为〇到九。
func Digits(n int) string {
	s := strconv.FormatUint(magnitude(n), 10)
	out := make([]rune, 0, len(s)+1)
	if n < 0 {
		out = append(out, '-')
	}
	for _, c := range s {
		out = append(out, digits[c-'0'])
	}
	return string(out)
}

// magnitude 返回 |n|，math.MinInt 也不会溢出。
func magnitude(n int) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}
