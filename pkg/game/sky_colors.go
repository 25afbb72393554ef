package game

import (
	"image/color"
	"log"
	"math"

	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// 默认调色板
var (
	DefaultDayPalette = [4]string{"#2A4A6A", "#3A5A7A", "#4A6A8A", "#5A7A9A"}
	// DefaultNightPalette 夜晚色标，顺序为 top, middle, bottom, horizon
	DefaultNightPalette = [4]string{"#0A1A2A", "#1A2A3A", "#2A3A4A", "#3A4A5A"}
)

// TransitionFactor 由循环进度计算日夜混合系数
//
// 太阳半程 [0, 0.5) 是一个三角波：0.25 处达到 1。
// 月亮半程 [0.5, 1) 从 1 线性降到 0，因此交接点 0.5 处为 1。
// 返回值始终在 [0, 1]。
func TransitionFactor(p float64) float64 {
	var f float64
	if p < types.CycleHandoff {
		s := p * 2
		if s <= 0.5 {
			f = s * 2
		} else {
			f = 2 - s*2
		}
	} else {
		f = 1 - (p-types.CycleHandoff)*2
	}
	return utils.Clamp01(f)
}

// EasedTransition 对混合系数做正弦缓出
func EasedTransition(p float64) float64 {
	return utils.EaseOutSine(TransitionFactor(p))
}

// InterpolatePalette 在夜晚与白天调色板之间逐通道线性插值
// t=0 为夜晚，t=1 为白天；每个通道四舍五入（.5 向上）
func InterpolatePalette(night, day types.SkyColors, t float64) types.SkyColors {
	t = utils.Clamp01(t)
	return types.SkyColors{
		Top:     blendRGB(night.Top, day.Top, t),
		Middle:  blendRGB(night.Middle, day.Middle, t),
		Bottom:  blendRGB(night.Bottom, day.Bottom, t),
		Horizon: blendRGB(night.Horizon, day.Horizon, t),
	}
}

func blendRGB(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: blendChannel(a.R, b.R, t),
		G: blendChannel(a.G, b.G, t),
		B: blendChannel(a.B, b.B, t),
		A: 255,
	}
}

func blendChannel(a, b uint8, t float64) uint8 {
	v := math.Floor(utils.Lerp(float64(a), float64(b), t) + 0.5)
	return uint8(utils.Clamp(v, 0, 255))
}

// PaletteFromHex 从四个十六进制字符串构建调色板
//
// 无法解析的色标降级为黑色，并以 "label.stop" 的形式返回在 invalid 中。
func PaletteFromHex(label string, stops [4]string) (palette types.SkyColors, invalid []string) {
	names := [4]string{"top", "middle", "bottom", "horizon"}
	var parsed [4]color.RGBA
	for i, s := range stops {
		c, ok := types.ParseHexColor(s)
		if !ok {
			invalid = append(invalid, label+"."+names[i])
		}
		parsed[i] = c
	}
	return types.SkyColors{Top: parsed[0], Middle: parsed[1], Bottom: parsed[2], Horizon: parsed[3]}, invalid
}

// SkyColorModel 保存白天、夜晚和当前调色板
//
// Current 只由 Recompute 写入，是 (Day, Night, progress) 的纯函数。
type SkyColorModel struct {
	Day     types.SkyColors
	Night   types.SkyColors
	Current types.SkyColors

	factor float64
}

// NewSkyColorModel 用十六进制色标创建颜色模型，非法颜色记录一次日志后按黑色处理
func NewSkyColorModel(day, night [4]string) *SkyColorModel {
	dayPalette, badDay := PaletteFromHex("day", day)
	nightPalette, badNight := PaletteFromHex("night", night)
	for _, name := range append(badDay, badNight...) {
		log.Printf("[SkyColors] Invalid color for %s, falling back to black", name)
	}
	m := &SkyColorModel{Day: dayPalette, Night: nightPalette}
	m.Recompute(DefaultInitialProgress)
	return m
}

// Recompute 根据进度重新计算当前调色板
func (m *SkyColorModel) Recompute(p float64) types.SkyColors {
	m.factor = EasedTransition(p)
	m.Current = InterpolatePalette(m.Night, m.Day, m.factor)
	return m.Current
}

// Factor 最近一次 Recompute 使用的缓动系数
func (m *SkyColorModel) Factor() float64 {
	return m.factor
}
