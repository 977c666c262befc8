package config

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Color 以 0..1 的浮点分量描述 RGB 颜色。
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Black 是所有颜色键的默认值。
var Black = RGB8(0, 0, 0)

// RGB8 由 8 位分量构造颜色。
func RGB8(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

var namedColors = map[string]Color{
	"black":     RGB8(0, 0, 0),
	"white":     RGB8(255, 255, 255),
	"red":       RGB8(255, 0, 0),
	"blue":      RGB8(0, 0, 255),
	"green":     RGB8(0, 128, 0),
	"gray":      RGB8(128, 128, 128),
	"grey":      RGB8(128, 128, 128),
	"darkgray":  RGB8(64, 64, 64),
	"darkgrey":  RGB8(64, 64, 64),
	"lightgray": RGB8(200, 200, 200),
	"lightgrey": RGB8(200, 200, 200),
}

// ParseColor 解析 #rgb、#rrggbb 或颜色名。
func ParseColor(raw string) (Color, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Color{}, errors.Wrap(ErrInvalidValue, "颜色为空")
	}
	if hex, ok := strings.CutPrefix(raw, "#"); ok {
		return parseHex(hex)
	}
	if c, ok := namedColors[strings.ToLower(raw)]; ok {
		return c, nil
	}
	return Color{}, errors.Wrapf(ErrInvalidValue, "不支持的颜色 %q", raw)
}

func parseHex(hex string) (Color, error) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, errors.Wrapf(ErrInvalidValue, "无效的十六进制颜色 #%s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(ErrInvalidValue, "无效的十六进制颜色 #%s", hex)
	}
	return RGB8(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// NRGBA 转换为标准库颜色，供渲染器使用。
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 0xff}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
