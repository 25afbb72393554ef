package types

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor 解析 "#RRGGBB" 形式的颜色
//
// 解析失败时返回不透明黑色和 false，调用方据此决定是否记录日志。
// 配置错误在渲染层一律降级处理，不会中断动画。
func ParseHexColor(s string) (color.RGBA, bool) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{A: 255}, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

// MustHex 解析颜色，失败时返回黑色（仅用于内置常量）
func MustHex(s string) color.RGBA {
	c, _ := ParseHexColor(s)
	return c
}

// HexString 将颜色编码为小写 "#rrggbb"
func HexString(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// WithAlpha 返回替换了透明度的颜色
//
// 参数：
//   - c: 原始颜色（忽略其 A 通道）
//   - alpha: 透明度 0.0 ~ 1.0，超出范围会被截断
//
// 返回非预乘的 color.NRGBA，由绘制层负责转换。
func WithAlpha(c color.RGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}
