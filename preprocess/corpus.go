package preprocess

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/ByLCY/vrain/config"
)

// MaxOrdinal 是 text 目录中允许的最大序号。
const MaxOrdinal = 999

var (
	// ErrEntryNotFound 表示请求的篇目不存在。
	ErrEntryNotFound = errors.New("篇目不存在")

	// ErrEmptyCorpus 表示 text 目录中没有任何可用的篇目。
	ErrEmptyCorpus = errors.New("没有可用的正文")
)

// Entry 是一篇预处理后的正文。
type Entry struct {
	Name    string
	Ordinal int
	Text    string
}

// Corpus 按序号保存全部篇目。
type Corpus struct {
	entries  [MaxOrdinal + 1]*Entry
	prologue bool
	appendix bool
}

// Entry 返回第 ordinal 篇的正文。
func (c *Corpus) Entry(ordinal int) (string, error) {
	if ordinal < 0 || ordinal > MaxOrdinal || c.entries[ordinal] == nil {
		return "", errors.Wrapf(ErrEntryNotFound, "第 %d 篇", ordinal)
	}
	return c.entries[ordinal].Text, nil
}

// HasPrologue 报告是否存在 000.txt（序）。
func (c *Corpus) HasPrologue() bool { return c.prologue }

// HasAppendix 报告是否存在 999.txt（附）。
func (c *Corpus) HasAppendix() bool { return c.appendix }

// HighestOrdinal 返回最大的非空序号。
func (c *Corpus) HighestOrdinal() int {
	for i := MaxOrdinal; i >= 0; i-- {
		if c.entries[i] != nil {
			return i
		}
	}
	return 0
}

// Add 以已处理的文本登记一篇，供测试与内嵌语料使用。
func (c *Corpus) Add(ordinal int, text string) error {
	if ordinal < 0 || ordinal > MaxOrdinal {
		return errors.Errorf("序号 %d 超出范围 0..%d", ordinal, MaxOrdinal)
	}
	c.entries[ordinal] = &Entry{Name: strconv.Itoa(ordinal), Ordinal: ordinal, Text: text}
	if ordinal == 0 {
		c.prologue = true
	}
	return nil
}

// LoadCorpus 读取 <bookDir>/text/*.txt 并逐篇预处理。
// 文件名去掉扩展名后必须是整数；全 0 的文件名视为序，999.txt 视为附录。
func LoadCorpus(bookDir string, book *config.Book, logger *slog.Logger) (*Corpus, error) {
	textDir := filepath.Join(bookDir, "text")
	dirEntries, err := os.ReadDir(textDir)
	if err != nil {
		return nil, errors.Wrapf(err, "无法读取正文目录 %s", textDir)
	}

	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), ".txt") {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	c := &Corpus{}
	found := 0
	for _, name := range names {
		lower := strings.ToLower(name)
		stem := strings.TrimSuffix(lower, ".txt")
		if strings.Trim(stem, "0") == "" {
			c.prologue = true
		}
		if lower == "999.txt" {
			c.appendix = true
		}
		ordinal, err := strconv.Atoi(stem)
		if err != nil || ordinal < 0 || ordinal > MaxOrdinal {
			if logger != nil {
				logger.Warn("跳过无法识别的正文文件", "file", name)
			}
			continue
		}

		data, err := os.ReadFile(filepath.Join(textDir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "读取正文 %s 失败", name)
		}
		content, err := Decode(data, book.TextEncoding)
		if err != nil {
			return nil, errors.Wrapf(err, "解码正文 %s 失败", name)
		}
		c.entries[ordinal] = &Entry{Name: name, Ordinal: ordinal, Text: ProcessText(content, book)}
		found++
	}
	if found == 0 {
		return nil, errors.Wrapf(ErrEmptyCorpus, "%s 下没有 .txt 文件", textDir)
	}
	return c, nil
}

// Decode 按 text_encoding 解码文件内容，默认 UTF-8 并去掉 BOM。
func Decode(data []byte, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "gbk", "gb2312", "gb18030":
		decoder := simplifiedchinese.GBK.NewDecoder()
		if strings.EqualFold(encoding, "gb18030") {
			decoder = simplifiedchinese.GB18030.NewDecoder()
		}
		out, err := decoder.Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "", "utf8", "utf-8":
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return "", errors.Errorf("不支持的 text_encoding %q", encoding)
}
