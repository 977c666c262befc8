package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func fixture(t *testing.T) (string, Job) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "books", "demo", "book.cfg"), []byte(`# demo
title = Demo
author = Anon
canvas_id = c1
row_num = 5
font1 = go.ttf
text_font1_size = 20
comment_font1_size = 10
text_fonts_array = 1
comment_fonts_array = 1
title_postfix = X
title_directory = 1
title_font_size = 12
pager_font_size = 10
output_name = ${book}-${from}-${to}.pdf
`))
	writeFile(t, filepath.Join(root, "canvas", "c1.cfg"), []byte(`canvas_width = 240
canvas_height = 300
margins_top = 20
margins_bottom = 20
margins_left = 10
margins_right = 10
leaf_col = 4
leaf_center_width = 20
`))
	writeFile(t, filepath.Join(root, "fonts", "go.ttf"), goregular.TTF)
	writeFile(t, filepath.Join(root, "db", "num2zh_jid.txt"), []byte("1|one\n"))
	writeFile(t, filepath.Join(root, "books", "demo", "text", "001.txt"), []byte("ABCDEFGHIJ\n%\nKLMNO【abc】\n"))

	return root, Job{
		BookID:       "demo",
		From:         1,
		To:           1,
		BooksDir:     filepath.Join(root, "books"),
		CanvasDir:    filepath.Join(root, "canvas"),
		FontsDir:     filepath.Join(root, "fonts"),
		DBDir:        filepath.Join(root, "db"),
		PreviewScale: 0.5,
	}
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestRunWritesPDF(t *testing.T) {
	root, job := fixture(t)
	job.DebugPlan = filepath.Join(root, "out", "plan.json")
	job.PreviewDir = filepath.Join(root, "out", "preview")

	out, err := run(job, discard())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "books", "demo", "demo-1-1.pdf"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	require.True(t, bytes.Contains(data, []byte("/Outlines")))

	require.FileExists(t, job.DebugPlan)
	require.NoFileExists(t, filepath.Join(root, "books", "demo", "demo-1-1.toc.txt"))

	previews, err := filepath.Glob(filepath.Join(job.PreviewDir, "*.png"))
	require.NoError(t, err)
	require.Len(t, previews, 2)
}

func TestRunRejectsReversedRange(t *testing.T) {
	_, job := fixture(t)
	job.From, job.To = 3, 1
	_, err := run(job, discard())
	require.Error(t, err)
}

func TestRunMissingChapter(t *testing.T) {
	_, job := fixture(t)
	job.From, job.To = 1, 2
	_, err := run(job, discard())
	require.Error(t, err)
}

func TestRunGenerateBackground(t *testing.T) {
	root, job := fixture(t)
	job.GenerateBG = true
	out, err := run(job, discard())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "canvas", "c1.png"), out)
	require.FileExists(t, out)
}
