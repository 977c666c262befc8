package canvasrenderer

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/ByLCY/vrain/config"
)

var imageExts = []string{".jpg", ".jpeg", ".png"}

// LoadImage 解码 JPEG/PNG/GIF 图片。
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取图片 %s 失败", path)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "解码图片 %s 失败", path)
	}
	return img, nil
}

// FindImage 在 dir 下查找 stem.jpg / stem.jpeg / stem.png，找不到时返回空串。
func FindImage(dir, stem string) string {
	for _, ext := range imageExts {
		path := filepath.Join(dir, stem+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

var (
	paperColor  = color.NRGBA{210, 200, 190, 255}
	bambooColor = color.NRGBA{233, 189, 96, 255}
	cordColor   = color.NRGBA{148, 112, 55, 255}
	shadowColor = color.NRGBA{210, 210, 210, 255}
)

// GenerateBackground 在缺少背景图时生成竹简底纹，尺寸与画布相同。
func GenerateBackground(cv *config.Canvas) image.Image {
	width, height := max(int(cv.Width), 1), max(int(cv.Height), 1)
	dc := gg.NewContext(width, height)
	dc.SetColor(paperColor)
	dc.Clear()

	cols := max(cv.LeafCol, 1)
	cw := (cv.Width - cv.MarginLeft - cv.MarginRight - cv.LeafCenterWidth) / float64(cols)
	top, bottom := cv.MarginTop, cv.Height-cv.MarginBottom
	band := max(cw*0.1, 4)

	for col := 0; col < cv.LeafCol; col++ {
		x0 := cv.MarginLeft + cw*float64(col) + cw*0.05
		x1 := cv.MarginLeft + cw*float64(col+1) - cw*0.05

		dc.SetColor(bambooColor)
		dc.DrawRectangle(x0, top, x1-x0, bottom-top)
		dc.Fill()

		dc.SetColor(shadowColor)
		dc.SetLineWidth(2)
		dc.DrawLine(x1, top, x1, bottom)
		dc.DrawLine(x0, bottom, x1, bottom)
		dc.Stroke()

		// 上下两道编绳
		bx0, bx1 := x0-cw*0.02, x1+cw*0.02
		dc.SetColor(cordColor)
		dc.DrawRectangle(bx0, top-band, bx1-bx0, band)
		dc.DrawRectangle(bx0, bottom, bx1-bx0, band)
		dc.Fill()

		step := cw / 10
		for j := 0; j < 10; j++ {
			if j == 5 {
				continue
			}
			lx := bx0 + step*float64(j)
			dc.DrawLine(lx, top-band, lx+step, top)
			dc.DrawLine(lx, bottom, lx+step, bottom+band)
		}
		dc.Stroke()

		const fibers = 30
		dc.SetLineWidth(1)
		for k := 0; k < fibers; k++ {
			t := float64(noise(uint32(col), uint32(k))) / 255
			gray := uint8(210 + 40*t)
			rx := x0 + cw*0.1 + cw*0.8*float64(k)/fibers
			dc.SetColor(color.NRGBA{gray, gray, gray, 255})
			dc.DrawLine(rx, top+20*t, rx, bottom-20*t)
			dc.Stroke()
		}
	}

	img := dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		addGrain(rgba, 0.03)
	}
	return img
}

func addGrain(img *image.RGBA, magnitude float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			delta := (float64(noise(uint32(x), uint32(y)))/255 - 0.5) * magnitude * 255
			i := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[i+c]) + delta
				img.Pix[i+c] = uint8(min(max(v, 0), 255))
			}
		}
	}
}

// noise 是可重复的整数哈希噪声。
func noise(x, y uint32) uint8 {
	v := x*73856093 ^ y*19349663
	v ^= v >> 13
	v *= 0x85ebca6b
	return uint8(v >> 8)
}
