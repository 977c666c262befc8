package config

import (
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	cfgLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Newline", Pattern: `\n`},
		{Name: "Whitespace", Pattern: `[ \t\f\v\r\x{00a0}\x{3000}]+`},
		{Name: "HashValue", Pattern: `=#[^\n]*`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Assign", Pattern: `=`},
		{Name: "Word", Pattern: `[^\s\x{00a0}\x{3000}=#]+`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(cfgLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// File 是 cfg 文件的语法树根节点，每个非空行对应一个 Entry。
type File struct {
	Entries []*Entry `parser:"( @@ | Newline )*"`
}

// Entry 对应一行 key = value。
// 行内空白在词法阶段被丢弃，因此多个 Word 会被直接拼接，等价于“删除行内所有空白”。
// 以 = 开头的行没有键，整行被吞掉并在 NewRaw 中忽略。
type Entry struct {
	Key    string  `parser:"( @Word"`
	Hash   *string `parser:"  ( @HashValue"`
	Text   string  `parser:"  | Assign @( Word | Assign | HashValue )* )?"`
	Orphan bool    `parser:"| @( Assign | HashValue ) ( Word | Assign | HashValue )* )"`
}

// Value 返回该行的值；以 =# 开头的值保留 # 号（颜色值）。
func (e *Entry) Value() string {
	if e.Hash != nil {
		return strings.Map(dropSpace, strings.TrimPrefix(*e.Hash, "="))
	}
	return e.Text
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}

// Parse 从 io.Reader 解析 cfg 内容。
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString 从字符串解析 cfg 内容。
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}

// Raw 是解析后的键值表，后出现的键覆盖先出现的键。
type Raw struct {
	source string
	data   map[string]string
}

// LoadRaw 读取并解析 path 指向的 cfg 文件。
func LoadRaw(path string) (*Raw, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "无法打开配置文件 %s", path)
	}
	defer file.Close()

	ast, err := fileParser.Parse(path, file)
	if err != nil {
		return nil, errors.Wrapf(err, "解析配置文件 %s 失败", path)
	}
	return NewRaw(path, ast), nil
}

// NewRaw 将语法树展开为键值表。
func NewRaw(source string, ast *File) *Raw {
	raw := &Raw{source: source, data: map[string]string{}}
	if ast == nil {
		return raw
	}
	for _, entry := range ast.Entries {
		if entry == nil || entry.Key == "" {
			continue
		}
		raw.data[entry.Key] = entry.Value()
	}
	return raw
}

// Get 返回键对应的值以及是否存在。
func (r *Raw) Get(key string) (string, bool) {
	v, ok := r.data[key]
	return v, ok
}

// Lookup 返回键对应的值，不存在时为空串。
func (r *Raw) Lookup(key string) string {
	return r.data[key]
}

// Require 返回必填键的值。
func (r *Raw) Require(key string) (string, error) {
	v, ok := r.data[key]
	if !ok {
		return "", errors.Wrapf(ErrMissingKey, "%s 缺少 %q", r.source, key)
	}
	return v, nil
}
