package canvasrenderer

import (
	"bytes"
	"image"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vrain/config"
	"github.com/ByLCY/vrain/fonts"
	"github.com/ByLCY/vrain/layout"
	"github.com/ByLCY/vrain/renderer"
)

// Renderer 使用 github.com/tdewolff/canvas 把 DocumentPlan 画成 PDF。
// 排版坐标以画布像素为单位、原点在左下角，与 canvas 的默认坐标系一致，只需换算为毫米。
type Renderer struct {
	book   *config.Book
	canvas *config.Canvas
	grid   *layout.Grid
	fonts  *fonts.Set
	chrome renderer.Chrome

	background image.Image
	coverImage image.Image
	stamps     map[int][]Stamp
	creator    string
	logger     *slog.Logger

	fontMu       sync.Mutex
	fontFamilies map[int]*canvas.FontFamily

	imageMu    sync.Mutex
	stampCache map[string]image.Image
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options 配置 PDF 渲染器。
type Options struct {
	Book     *config.Book
	Canvas   *config.Canvas
	Grid     *layout.Grid
	Fonts    *fonts.Set
	Numerals layout.NumeralRenderer
	// Background 为空时每页不铺底图。
	Background image.Image
	// CoverImage 仅在 DocumentPlan 为 image 封面时使用。
	CoverImage image.Image
	Stamps     map[int][]Stamp
	Creator    string
	Logger     *slog.Logger
}

// NewRenderer 创建渲染器。
func NewRenderer(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	creator := opts.Creator
	if creator == "" {
		creator = "vrain"
	}
	return &Renderer{
		book:   opts.Book,
		canvas: opts.Canvas,
		grid:   opts.Grid,
		fonts:  opts.Fonts,
		chrome: renderer.Chrome{
			Book:     opts.Book,
			Canvas:   opts.Canvas,
			Numerals: opts.Numerals,
		},
		background:   opts.Background,
		coverImage:   opts.CoverImage,
		stamps:       opts.Stamps,
		creator:      creator,
		logger:       logger,
		fontFamilies: map[int]*canvas.FontFamily{},
		stampCache:   map[string]image.Image{},
	}
}

// Render 输出 PDF：第一页为封面，其后每个 PagePlan 一页。
// 开启 title_directory 时，各卷标题写入 PDF 书签，指向标题所在页的页首。
func (r *Renderer) Render(plan *layout.DocumentPlan) ([]byte, error) {
	if plan == nil {
		return nil, errors.New("排版结果为空")
	}
	if r.book == nil || r.canvas == nil || r.fonts == nil {
		return nil, errors.New("渲染器缺少书籍、画布或字体配置")
	}

	width, height := mm(r.canvas.Width), mm(r.canvas.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo(r.book.Title, "", "", r.book.Author, r.creator)

	cover := canvas.New(width, height)
	if err := r.drawCover(canvas.NewContext(cover), plan); err != nil {
		return nil, err
	}
	cover.RenderTo(writer)

	outlines := r.chrome.Bookmarks(plan)
	for _, page := range plan.Pages {
		writer.NewPage(width, height)
		for _, title := range outlines[page.Number] {
			writer.AddOutline(title, 0, height)
		}
		c := canvas.New(width, height)
		if err := r.drawPage(canvas.NewContext(c), page); err != nil {
			return nil, errors.Wrapf(err, "绘制第 %d 页失败", page.Number)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "写入 PDF 失败")
	}
	return buf.Bytes(), nil
}

// Bookmark 是目录项与 PDF 页序（从 1 开始，封面为第 1 页）的对应。
type Bookmark struct {
	Title   string
	PDFPage int
}

// Bookmarks 返回目录；未开启 title_directory 时为空。
func (r *Renderer) Bookmarks(plan *layout.DocumentPlan) []Bookmark {
	byPage := r.chrome.Bookmarks(plan)
	if len(byPage) == 0 {
		return nil
	}
	var out []Bookmark
	for i, page := range plan.Pages {
		for _, title := range byPage[page.Number] {
			out = append(out, Bookmark{Title: title, PDFPage: i + 2})
		}
	}
	return out
}

func (r *Renderer) drawCover(ctx *canvas.Context, plan *layout.DocumentPlan) error {
	if plan.Cover == layout.CoverImage {
		if r.coverImage != nil {
			r.drawFullPage(ctx, r.coverImage)
			return nil
		}
		r.logger.Warn("未能载入封面图片，改用生成封面", "path", plan.CoverPath)
	}
	if r.background != nil {
		r.drawFullPage(ctx, r.background)
	}
	return r.drawGlyphs(ctx, r.chrome.CoverGlyphs())
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.PagePlan) error {
	if r.background != nil {
		r.drawFullPage(ctx, r.background)
	}
	for _, st := range r.stamps[page.Number] {
		if err := r.drawStamp(ctx, st); err != nil {
			return err
		}
	}
	if err := r.drawGlyphs(ctx, r.chrome.PageGlyphs(page)); err != nil {
		return err
	}
	r.drawLines(ctx, page.Lines)
	return r.drawGlyphs(ctx, page.Glyphs)
}

func (r *Renderer) drawFullPage(ctx *canvas.Context, img image.Image) {
	w := img.Bounds().Dx()
	if w <= 0 {
		return
	}
	ctx.DrawImage(0, 0, img, canvas.DPMM(float64(w)/mm(r.canvas.Width)))
}

func (r *Renderer) drawGlyphs(ctx *canvas.Context, glyphs []layout.GlyphPlacement) error {
	for _, g := range glyphs {
		family, err := r.fontFamily(g.FontSlot)
		if err != nil {
			if errors.Is(err, fonts.ErrSlotNotLoaded) {
				continue
			}
			return err
		}
		face := family.Face(g.FontSize, g.Color.NRGBA(), canvas.FontRegular, canvas.FontNormal)
		text := canvas.NewTextLine(face, g.Char, canvas.Left)
		if g.RotateDeg == 0 {
			ctx.DrawText(mm(g.X), mm(g.Y), text)
			continue
		}
		ctx.Push()
		ctx.ComposeView(canvas.Identity.Translate(mm(g.X), mm(g.Y)).Rotate(g.RotateDeg))
		ctx.DrawText(0, 0, text)
		ctx.Pop()
	}
	return nil
}

// drawLines 绘制专名线，波浪线以折线近似。
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.LinePlacement) {
	for _, ln := range lines {
		pts := renderer.LinePoints(ln)
		if len(pts) < 2 {
			continue
		}
		p := &canvas.Path{}
		p.MoveTo(mm(pts[0].X), mm(pts[0].Y))
		for _, pt := range pts[1:] {
			p.LineTo(mm(pt.X), mm(pt.Y))
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(ln.Color.NRGBA())
		ctx.SetStrokeWidth(mm(ln.Width))
		ctx.DrawPath(0, 0, p)
	}
}

func (r *Renderer) fontFamily(slot int) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[slot]; ok {
		return family, nil
	}
	face, err := r.fonts.Face(slot)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(face.Name)
	if err := family.LoadFont(face.Data, 0, canvas.FontRegular); err != nil {
		return nil, errors.Wrapf(err, "载入字体 font%d（%s）失败", slot, face.Name)
	}
	r.fontFamilies[slot] = family
	return family, nil
}

// mm 将画布像素换算为毫米。
func mm(px float64) float64 { return layout.PxToMM(px) }
