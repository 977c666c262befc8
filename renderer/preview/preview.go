// Package preview 用 fogleman/gg 把每一页画成 PNG，便于快速检查版面。
package preview

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/font"

	"github.com/ByLCY/vrain/config"
	"github.com/ByLCY/vrain/fonts"
	"github.com/ByLCY/vrain/layout"
	"github.com/ByLCY/vrain/renderer"
)

// Options 配置预览渲染器。
type Options struct {
	Book       *config.Book
	Canvas     *config.Canvas
	Fonts      *fonts.Set
	Numerals   layout.NumeralRenderer
	Background image.Image
	// Scale 为输出像素与画布像素之比，默认 0.5。
	Scale float64
}

// Renderer 输出 PNG 预览。
type Renderer struct {
	canvas     *config.Canvas
	fonts      *fonts.Set
	chrome     renderer.Chrome
	background image.Image
	scale      float64

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	slot int
	size float64
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建预览渲染器。
func NewRenderer(opts Options) *Renderer {
	scale := opts.Scale
	if scale <= 0 {
		scale = 0.5
	}
	return &Renderer{
		canvas:     opts.Canvas,
		fonts:      opts.Fonts,
		chrome:     renderer.Chrome{Book: opts.Book, Canvas: opts.Canvas, Numerals: opts.Numerals},
		background: opts.Background,
		scale:      scale,
		faces:      map[faceKey]font.Face{},
	}
}

// Render 返回第一页的 PNG。
func (r *Renderer) Render(plan *layout.DocumentPlan) ([]byte, error) {
	if plan == nil || len(plan.Pages) == 0 {
		return nil, errors.New("没有可预览的页面")
	}
	dc, err := r.drawPage(plan.Pages[0])
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(err, "编码 PNG 失败")
	}
	return buf.Bytes(), nil
}

// WriteDir 将每页写成 dir/page-NNN.png，返回写出的文件路径。
func (r *Renderer) WriteDir(plan *layout.DocumentPlan, dir string) ([]string, error) {
	if plan == nil {
		return nil, errors.New("排版结果为空")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "创建预览目录 %s 失败", dir)
	}
	paths := make([]string, 0, len(plan.Pages))
	for _, page := range plan.Pages {
		dc, err := r.drawPage(page)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("page-%03d.png", page.Number))
		if err := dc.SavePNG(path); err != nil {
			return paths, errors.Wrapf(err, "写入预览 %s 失败", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderPage 返回单页的位图。
func (r *Renderer) RenderPage(page layout.PagePlan) (image.Image, error) {
	dc, err := r.drawPage(page)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func (r *Renderer) drawPage(page layout.PagePlan) (*gg.Context, error) {
	if r.canvas == nil || r.fonts == nil {
		return nil, errors.New("预览缺少画布或字体配置")
	}
	w := max(int(r.canvas.Width*r.scale), 1)
	h := max(int(r.canvas.Height*r.scale), 1)
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	if r.background != nil && r.background.Bounds().Dx() > 0 {
		dc.Push()
		k := r.canvas.Width / float64(r.background.Bounds().Dx())
		dc.Scale(k, k)
		dc.DrawImage(r.background, 0, 0)
		dc.Pop()
	}

	if err := r.drawGlyphs(dc, r.chrome.PageGlyphs(page)); err != nil {
		return nil, err
	}
	for _, ln := range page.Lines {
		pts := renderer.LinePoints(ln)
		for i, pt := range pts {
			if i == 0 {
				dc.MoveTo(pt.X, r.flip(pt.Y))
			} else {
				dc.LineTo(pt.X, r.flip(pt.Y))
			}
		}
		dc.SetColor(ln.Color.NRGBA())
		dc.SetLineWidth(ln.Width)
		dc.Stroke()
	}
	if err := r.drawGlyphs(dc, page.Glyphs); err != nil {
		return nil, err
	}
	return dc, nil
}

// flip 把左下角原点的 y 换成 gg 的左上角原点。
func (r *Renderer) flip(y float64) float64 { return r.canvas.Height - y }

func (r *Renderer) drawGlyphs(dc *gg.Context, glyphs []layout.GlyphPlacement) error {
	for _, g := range glyphs {
		face, err := r.face(g.FontSlot, g.FontSize)
		if err != nil {
			if errors.Is(err, fonts.ErrSlotNotLoaded) {
				continue
			}
			return err
		}
		x, y := g.X, r.flip(g.Y)
		dc.SetFontFace(face)
		dc.SetColor(g.Color.NRGBA())
		if g.RotateDeg == 0 {
			dc.DrawString(g.Char, x, y)
			continue
		}
		dc.Push()
		dc.RotateAbout(gg.Radians(-g.RotateDeg), x, y)
		dc.DrawString(g.Char, x, y)
		dc.Pop()
	}
	return nil
}

func (r *Renderer) face(slot int, size float64) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := faceKey{slot, size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	src, err := r.fonts.Face(slot)
	if err != nil {
		return nil, err
	}
	f, err := src.NewFace(size)
	if err != nil {
		return nil, errors.Wrapf(err, "创建 font%d 字号 %g 失败", slot, size)
	}
	r.faces[key] = f
	return f, nil
}
