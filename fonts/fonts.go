// Package fonts 载入书籍配置中的字体槽位，并回答某个槽位是否包含某个字形。
package fonts

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/vrain/config"
)

// ErrSlotNotLoaded 表示请求的槽位没有配置字体。
var ErrSlotNotLoaded = errors.New("字体槽位未载入")

// Face 是一个已解析的字体文件。
type Face struct {
	Slot int
	Name string
	Path string
	// Data 保留原始字节，供 PDF 与预览渲染器嵌入。
	Data []byte
	sf   *opentype.Font
}

// HasGlyph 报告字体是否包含 r 的字形（GlyphIndex 为 0 即 .notdef）。
func (f *Face) HasGlyph(r rune) bool {
	if f == nil || f.sf == nil {
		return false
	}
	var buf sfnt.Buffer
	idx, err := f.sf.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}

// NewFace 返回 size 点（72 DPI）的光栅字体，供 PNG 预览使用。
func (f *Face) NewFace(size float64) (font.Face, error) {
	return opentype.NewFace(f.sf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Set 按槽位保存字体，实现 layout.GlyphChecker。
type Set struct {
	faces [config.MaxFontSlots]*Face

	mu    sync.Mutex
	cache map[cacheKey]bool
}

type cacheKey struct {
	slot int
	r    rune
}

// Load 读取 book 中配置的全部字体，文件位于 fontsDir 下。
func Load(book *config.Book, fontsDir string) (*Set, error) {
	s := NewSet()
	for _, slot := range book.Fonts.Slots {
		if slot == nil || slot.Name == "" {
			continue
		}
		path := filepath.Join(fontsDir, slot.Name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "读取字体 font%d（%s）失败", slot.ID, path)
		}
		if err := s.Add(slot.ID, slot.Name, path, data); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewSet 返回空的字体集合。
func NewSet() *Set {
	return &Set{cache: map[cacheKey]bool{}}
}

// Add 解析 data 并放入槽位 id。
func (s *Set) Add(id int, name, path string, data []byte) error {
	if id < 1 || id > config.MaxFontSlots {
		return errors.Errorf("字体槽位 %d 超出范围 1..%d", id, config.MaxFontSlots)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "解析字体 %s 失败", name)
	}
	s.faces[id-1] = &Face{Slot: id, Name: name, Path: path, Data: data, sf: f}

	s.mu.Lock()
	s.cache = map[cacheKey]bool{}
	s.mu.Unlock()
	return nil
}

// Face 返回槽位 id 的字体。
func (s *Set) Face(id int) (*Face, error) {
	if id < 1 || id > config.MaxFontSlots || s.faces[id-1] == nil {
		return nil, errors.Wrapf(ErrSlotNotLoaded, "font%d", id)
	}
	return s.faces[id-1], nil
}

// Faces 返回所有已载入的字体，按槽位排序。
func (s *Set) Faces() []*Face {
	var out []*Face
	for _, f := range s.faces {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// HasGlyph 实现 layout.GlyphChecker。
func (s *Set) HasGlyph(slot int, r rune) bool {
	if slot < 1 || slot > config.MaxFontSlots {
		return false
	}
	key := cacheKey{slot, r}
	s.mu.Lock()
	if v, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	v := s.faces[slot-1].HasGlyph(r)

	s.mu.Lock()
	s.cache[key] = v
	s.mu.Unlock()
	return v
}
