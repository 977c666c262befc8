package canvasrenderer

import (
	"bufio"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tdewolff/canvas"
)

// Stamp 是 yins.cfg 中的一枚印章：页码、起始列、起始行、所占列数与图片路径。
type Stamp struct {
	Page    int
	Column  int
	Row     int
	Columns int
	Path    string
}

// LoadStamps 读取 cfgPath（yins.cfg），只保留属于 pdfName 或 * 的行。
// 每行格式为 pdf|page,col,row,cols|file，图片位于 cfg 同级的 yins/ 目录。
// 文件不存在时返回空表；格式错误的行被跳过并计入 skipped。
func LoadStamps(cfgPath, pdfName string) (stamps map[int][]Stamp, skipped []int, err error) {
	f, err := os.Open(cfgPath)
	if os.IsNotExist(err) {
		return map[int][]Stamp{}, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "读取印章配置失败: %s", cfgPath)
	}
	defer f.Close()

	dir := filepath.Join(filepath.Dir(cfgPath), "yins")
	stamps = map[int][]Stamp{}
	sc := bufio.NewScanner(f)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		for len(parts) < 3 {
			parts = append(parts, "")
		}
		name := strings.TrimSpace(parts[0])
		if name != pdfName && name != "*" {
			continue
		}
		var nums []int
		for _, field := range strings.Split(parts[1], ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(field)); err == nil && n >= 0 {
				nums = append(nums, n)
			}
		}
		file := strings.TrimSpace(parts[2])
		if len(nums) != 4 || file == "" {
			skipped = append(skipped, lineno)
			continue
		}
		st := Stamp{Page: nums[0], Column: nums[1], Row: nums[2], Columns: nums[3], Path: filepath.Join(dir, file)}
		stamps[st.Page] = append(stamps[st.Page], st)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errors.Wrapf(err, "读取印章配置失败: %s", cfgPath)
	}
	return stamps, skipped, nil
}

// stampRect 返回印章左下角与宽度（画布像素）。
func (r *Renderer) stampRect(st Stamp) (x, y, width float64) {
	x = r.grid.ColumnX(st.Column)
	y = r.grid.MarginBottom + r.grid.RowHeight*float64(max(st.Row-1, 0))
	width = r.grid.ColumnWidth * float64(st.Columns)
	return x, y, width
}

func (r *Renderer) drawStamp(ctx *canvas.Context, st Stamp) error {
	if r.grid == nil {
		return nil
	}
	img, err := r.stampImage(st.Path)
	if err != nil {
		return err
	}
	if img == nil {
		return nil
	}
	x, y, width := r.stampRect(st)
	if width <= 0 || img.Bounds().Dx() <= 0 {
		return nil
	}
	ctx.DrawImage(mm(x), mm(y), img, canvas.DPMM(float64(img.Bounds().Dx())/mm(width)))
	return nil
}

func (r *Renderer) stampImage(path string) (image.Image, error) {
	r.imageMu.Lock()
	defer r.imageMu.Unlock()
	if img, ok := r.stampCache[path]; ok {
		return img, nil
	}
	img, err := LoadImage(path)
	if os.IsNotExist(errors.Cause(err)) {
		r.logger.Warn("印章文件不存在，跳过", "path", path)
		r.stampCache[path] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.stampCache[path] = img
	return img, nil
}
