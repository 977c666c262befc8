package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/ByLCY/vrain/binding"
	"github.com/ByLCY/vrain/config"
	"github.com/ByLCY/vrain/fonts"
	"github.com/ByLCY/vrain/layout"
	"github.com/ByLCY/vrain/numeral"
	"github.com/ByLCY/vrain/preprocess"
	"github.com/ByLCY/vrain/renderer"
	canvasrenderer "github.com/ByLCY/vrain/renderer/canvas"
	"github.com/ByLCY/vrain/renderer/preview"
	"github.com/ByLCY/vrain/variant"
)

func main() {
	cmd := &cli.Command{
		Name:  "vrain",
		Usage: "古籍刻本风格的竖排 PDF 排版工具",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "book", Aliases: []string{"b"}, Usage: "书籍编号，对应 books/<id>/", Required: true},
			&cli.IntFlag{Name: "from", Aliases: []string{"f"}, Usage: "起始篇序号", Value: 1},
			&cli.IntFlag{Name: "to", Aliases: []string{"t"}, Usage: "结束篇序号（含），默认等于 --from"},
			&cli.IntFlag{Name: "test-pages", Aliases: []string{"z"}, Usage: "只生成指定页数，用于调试"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "逐字输出排版日志"},
			&cli.StringFlag{Name: "books-dir", Usage: "书籍目录", Value: "books"},
			&cli.StringFlag{Name: "canvas-dir", Usage: "画布目录", Value: "canvas"},
			&cli.StringFlag{Name: "fonts-dir", Usage: "字体目录", Value: "fonts"},
			&cli.StringFlag{Name: "db-dir", Usage: "数据目录（num2zh_jid.txt）", Value: "db"},
			&cli.StringFlag{Name: "debug-plan", Usage: "输出排版结果 JSON 的路径"},
			&cli.StringFlag{Name: "preview-dir", Usage: "输出 PNG 预览的目录"},
			&cli.FloatFlag{Name: "preview-scale", Usage: "预览缩放比例", Value: 0.5},
			&cli.BoolFlag{Name: "generate-bg", Usage: "仅生成背景图并退出"},
			&cli.StringFlag{Name: "bg-output", Usage: "背景图输出路径，默认 canvas/<canvas_id>.png"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			to := cmd.Int("to")
			if !cmd.IsSet("to") {
				to = cmd.Int("from")
			}
			job := Job{
				BookID:       cmd.String("book"),
				From:         cmd.Int("from"),
				To:           to,
				TestPages:    cmd.Int("test-pages"),
				Verbose:      cmd.Bool("verbose"),
				BooksDir:     cmd.String("books-dir"),
				CanvasDir:    cmd.String("canvas-dir"),
				FontsDir:     cmd.String("fonts-dir"),
				DBDir:        cmd.String("db-dir"),
				DebugPlan:    cmd.String("debug-plan"),
				PreviewDir:   cmd.String("preview-dir"),
				PreviewScale: cmd.Float("preview-scale"),
				GenerateBG:   cmd.Bool("generate-bg"),
				BGOutput:     cmd.String("bg-output"),
			}
			level := slog.LevelInfo
			if job.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			out, err := run(job, logger)
			if err != nil {
				return err
			}
			fmt.Printf("已生成：%s\n", out)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// Job 是一次命令行调用的全部参数。
type Job struct {
	BookID       string
	From, To     int
	TestPages    int
	Verbose      bool
	BooksDir     string
	CanvasDir    string
	FontsDir     string
	DBDir        string
	DebugPlan    string
	PreviewDir   string
	PreviewScale float64
	GenerateBG   bool
	BGOutput     string
}

// run 串联配置、预处理、排版与渲染，返回写出的文件路径。
func run(job Job, logger *slog.Logger) (string, error) {
	if job.To < job.From {
		return "", errors.Errorf("--to（%d）不能小于 --from（%d）", job.To, job.From)
	}
	bookDir := filepath.Join(job.BooksDir, job.BookID)
	if err := ensureExists(bookDir, "书籍目录"); err != nil {
		return "", err
	}

	book, err := config.LoadBook(filepath.Join(bookDir, "book.cfg"))
	if err != nil {
		return "", err
	}
	if err := book.Validate(); err != nil {
		return "", err
	}
	cv, err := config.LoadCanvas(filepath.Join(job.CanvasDir, book.CanvasID+".cfg"))
	if err != nil {
		return "", err
	}
	if err := cv.Validate(); err != nil {
		return "", err
	}
	logger.Info("已载入书籍", "title", book.Title, "author", book.Author, "canvas", book.CanvasID)

	background := backgroundImage(job, book, cv, logger)
	if job.GenerateBG {
		out := job.BGOutput
		if out == "" {
			out = filepath.Join(job.CanvasDir, book.CanvasID+".png")
		}
		return out, savePNG(out, background)
	}

	mode := layout.MultiRowModeFromFlags(cv.MultiRows, cv.MultiRowsCount, book.MultiRowsHorizontalLayout)
	grid, err := layout.BuildGrid(book, cv, mode)
	if err != nil {
		return "", err
	}
	logger.Info("版面", "columns", grid.Columns, "rows", book.RowNum, "capacity", grid.Capacity())

	fontSet, err := fonts.Load(book, job.FontsDir)
	if err != nil {
		return "", err
	}
	numerals, err := numeral.LoadFile(filepath.Join(job.DBDir, "num2zh_jid.txt"))
	if err != nil {
		return "", err
	}
	corpus, err := preprocess.LoadCorpus(bookDir, book, logger)
	if err != nil {
		return "", err
	}

	caps := layout.Capabilities{Glyphs: fontSet, Numerals: numerals, Corpus: corpus}
	if book.TryST {
		conv, err := variant.NewOpenCC()
		if err != nil {
			return "", err
		}
		caps.Variants = conv
	}

	coverImage := canvasrenderer.FindImage(bookDir, "cover")
	ts, err := layout.NewTypesetter(book, grid, caps, layout.Options{
		From:       job.From,
		To:         job.To,
		TestPages:  job.TestPages,
		Verbose:    job.Verbose,
		CoverImage: coverImage,
		Logger:     logger,
	})
	if err != nil {
		return "", err
	}
	plan, err := ts.BuildPlan()
	if err != nil {
		return "", err
	}
	if err := plan.Validate(); err != nil {
		return "", err
	}
	if job.DebugPlan != "" {
		if err := writeDebug(plan, job.DebugPlan); err != nil {
			logger.Warn("输出调试 JSON 失败", "path", job.DebugPlan, "err", err)
		} else {
			logger.Info("已输出调试 JSON", "path", job.DebugPlan)
		}
	}

	name := binding.FileName(book.OutputName, binding.OutputVars(book.Title, book.Author, job.BookID, job.From, job.To))
	outputPath := filepath.Join(bookDir, name)

	stamps, skipped, err := canvasrenderer.LoadStamps(filepath.Join(bookDir, "yins.cfg"), strings.TrimSuffix(name, filepath.Ext(name)))
	if err != nil {
		return "", err
	}
	for _, line := range skipped {
		logger.Warn("忽略 yins.cfg 格式错误的行，需要 pdf|page,col,row,cols|file", "line", line)
	}

	opts := canvasrenderer.Options{
		Book:       book,
		Canvas:     cv,
		Grid:       grid,
		Fonts:      fontSet,
		Numerals:   numerals,
		Background: background,
		Stamps:     stamps,
		Logger:     logger,
	}
	if coverImage != "" {
		if opts.CoverImage, err = canvasrenderer.LoadImage(coverImage); err != nil {
			logger.Warn("封面图片无法解码", "path", coverImage, "err", err)
		}
	}
	pdfRenderer := canvasrenderer.NewRenderer(opts)
	if err := write(pdfRenderer, plan, outputPath); err != nil {
		return "", err
	}
	if marks := pdfRenderer.Bookmarks(plan); len(marks) > 0 {
		logger.Info("已写入书签", "count", len(marks))
	}

	if job.PreviewDir != "" {
		pv := preview.NewRenderer(preview.Options{
			Book:       book,
			Canvas:     cv,
			Fonts:      fontSet,
			Numerals:   numerals,
			Background: background,
			Scale:      job.PreviewScale,
		})
		paths, err := pv.WriteDir(plan, job.PreviewDir)
		if err != nil {
			return "", err
		}
		logger.Info("已输出预览", "dir", job.PreviewDir, "pages", len(paths))
	}
	return outputPath, nil
}

func ensureExists(path, label string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "%s不存在: %s", label, path)
	}
	return nil
}

// backgroundImage 依次查找 canvas/<id>.jpg、.png，找不到时生成竹简底纹。
func backgroundImage(job Job, book *config.Book, cv *config.Canvas, logger *slog.Logger) image.Image {
	if job.GenerateBG {
		return canvasrenderer.GenerateBackground(cv)
	}
	if path := canvasrenderer.FindImage(job.CanvasDir, book.CanvasID); path != "" {
		img, err := canvasrenderer.LoadImage(path)
		if err == nil {
			return img
		}
		logger.Warn("背景图无法解码，改用生成背景", "path", path, "err", err)
	}
	return canvasrenderer.GenerateBackground(cv)
}

func write(r renderer.Renderer, plan *layout.DocumentPlan, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "创建输出目录失败")
	}
	data, err := r.Render(plan)
	if err != nil {
		return errors.Wrap(err, "渲染 PDF 失败")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "写入 PDF 文件失败")
	}
	return nil
}

func writeDebug(plan *layout.DocumentPlan, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "创建调试目录失败")
	}
	return layout.WriteDebugJSON(plan, path)
}

func savePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "创建背景输出目录失败")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "写入背景图 %s 失败", path)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "编码背景图 %s 失败", path)
	}
	return f.Close()
}
