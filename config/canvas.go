package config

import (
	"strings"

	"github.com/pkg/errors"
)

// Canvas 对应 canvas/<canvas_id>.cfg，长度单位均为像素。
type Canvas struct {
	Width           float64
	Height          float64
	MarginTop       float64
	MarginBottom    float64
	MarginLeft      float64
	MarginRight     float64
	LeafCol         int
	LeafCenterWidth float64
	LogoText        string
	MultiRows       bool
	MultiRowsCount  int
}

// LoadCanvas 读取并解析画布配置。
func LoadCanvas(path string) (*Canvas, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	return CanvasFromRaw(raw)
}

// CanvasFromRaw 由键值表构造画布配置。
func CanvasFromRaw(raw *Raw) (*Canvas, error) {
	c := &Canvas{}
	floats := []struct {
		key string
		dst *float64
	}{
		{"canvas_width", &c.Width},
		{"canvas_height", &c.Height},
		{"margins_top", &c.MarginTop},
		{"margins_bottom", &c.MarginBottom},
		{"margins_left", &c.MarginLeft},
		{"margins_right", &c.MarginRight},
		{"leaf_center_width", &c.LeafCenterWidth},
	}
	var err error
	for _, f := range floats {
		if *f.dst, err = requireFloat(raw, f.key); err != nil {
			return nil, err
		}
	}
	if c.LeafCol, err = requireInt(raw, "leaf_col"); err != nil {
		return nil, err
	}
	c.LogoText = strings.TrimSpace(raw.Lookup("logo_text"))
	c.MultiRows = parseBool(raw.Lookup("if_multirows"))
	c.MultiRowsCount = intOr(raw.Lookup("multirows_num"), 1)
	return c, nil
}

// Validate 检查画布尺寸与页边距。
func (c *Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrap(ErrInvalidConfig, "canvas_width/canvas_height 必须大于 0")
	}
	if c.LeafCol <= 0 {
		return errors.Wrap(ErrInvalidConfig, "leaf_col 必须大于 0")
	}
	if c.MarginLeft+c.MarginRight >= c.Width {
		return errors.Wrapf(ErrInvalidConfig, "左右边距之和 %.2f 超出画布宽度 %.2f", c.MarginLeft+c.MarginRight, c.Width)
	}
	if c.MarginTop+c.MarginBottom >= c.Height {
		return errors.Wrapf(ErrInvalidConfig, "上下边距之和 %.2f 超出画布高度 %.2f", c.MarginTop+c.MarginBottom, c.Height)
	}
	return nil
}
