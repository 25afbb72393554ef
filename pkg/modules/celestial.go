package modules

import (
	"image/color"
	"math"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
)

// 日月参数
const (
	CelestialPriority = 100

	sunRays        = 12
	sunGlowStep    = 15.0
	moonGlowStep   = 6.0
	hiddenHeight   = 0.8 // 隐藏的天体停在画布 80% 高度处
	arcTop         = 0.2 // 弧线最高点位于画布 20% 高度
	arcBand        = 0.3 // 弧线纵向跨度占画布高度的比例
	arcHalfWidth   = 10.0
	arcCoefficient = -0.02
	arcPeak        = 5.0
)

// Body 日或月的当前状态
type Body struct {
	X, Y    float64
	Size    float64
	Glow    float64
	Color   color.RGBA
	Visible bool
}

// visibilityWindow 可见区间 [Start, End)
type visibilityWindow struct {
	Start, End float64
}

func (w visibilityWindow) contains(p float64) bool {
	return p >= w.Start && p < w.End
}

// normalized 区间内的归一化位置
func (w visibilityWindow) normalized(p float64) float64 {
	span := w.End - w.Start
	if span <= 0 {
		return 0
	}
	return (p - w.Start) / span
}

// CelestialModule 太阳和月亮
//
// 两者沿同一条抛物线 y = -0.02x² + 5 从左到右移动，分别占据循环的前后两段。
// 可见区间采用左闭右开：进度恰为 0.5 时太阳已隐藏、月亮可见。
type CelestialModule struct {
	base
	sun, moon           Body
	sunWindow           visibilityWindow
	moonWindow          visibilityWindow
	sunColor, moonColor color.RGBA
}

// NewCelestialModule 创建日月模块
func NewCelestialModule() *CelestialModule {
	m := &CelestialModule{
		base:       newBase(),
		sunWindow:  visibilityWindow{Start: 0, End: types.CycleHandoff},
		moonWindow: visibilityWindow{Start: types.CycleHandoff, End: 1},
	}
	m.sun = Body{Size: 70, Glow: 0.9}
	m.moon = Body{Size: 30, Glow: 0.7}
	return m
}

func (m *CelestialModule) Type() types.ModuleType { return types.ModuleCelestial }
func (m *CelestialModule) Name() string           { return "Celestial Objects" }
func (m *CelestialModule) DefaultPriority() int   { return CelestialPriority }

func (m *CelestialModule) Initialize(cfg types.ModuleConfig) error {
	m.configure(cfg)
	m.sunColor = m.colorSetting("sunColor", types.MustHex("#FFFFFF"))
	m.moonColor = m.colorSetting("moonColor", types.MustHex("#E6E6FA"))
	m.sun.Color, m.moon.Color = m.sunColor, m.moonColor
	m.place(0)
	return nil
}

func (m *CelestialModule) SetPerformanceMode(mode types.PerformanceMode) { m.mode = mode }

func (m *CelestialModule) UpdateCanvasDimensions(w, h int) {
	m.width, m.height = w, h
}

// UpdateResponsiveConfig 应用断点相关的可见区间和尺寸
func (m *CelestialModule) UpdateResponsiveConfig(cfg types.ResponsiveConfig) {
	if cfg.SunVisibleEnd > cfg.SunVisibleStart {
		m.sunWindow = visibilityWindow{Start: cfg.SunVisibleStart, End: cfg.SunVisibleEnd}
	}
	if cfg.MoonVisibleEnd > cfg.MoonVisibleStart {
		m.moonWindow = visibilityWindow{Start: cfg.MoonVisibleStart, End: cfg.MoonVisibleEnd}
	}
	if cfg.SunBaseSize > 0 {
		m.sun.Size = cfg.SunBaseSize
	}
	if cfg.MoonBaseSize > 0 {
		m.moon.Size = cfg.MoonBaseSize
	}
}

func (m *CelestialModule) Update(_ float64, snap types.Snapshot) error {
	m.place(snap.DayProgress)
	return nil
}

// place 根据进度计算日月位置；不可见的天体停在画布外
func (m *CelestialModule) place(p float64) {
	w, h := m.w(), m.h()

	if m.sunWindow.contains(p) {
		m.sun.X, m.sun.Y = m.arc(m.sunWindow.normalized(p))
		m.sun.Visible = true
	} else {
		m.sun.X, m.sun.Y = -m.sun.Size, h*hiddenHeight
		m.sun.Visible = false
	}

	if m.moonWindow.contains(p) {
		m.moon.X, m.moon.Y = m.arc(m.moonWindow.normalized(p))
		m.moon.Visible = true
	} else {
		m.moon.X, m.moon.Y = w+m.moon.Size, h*hiddenHeight
		m.moon.Visible = false
	}
}

// arc 将归一化进度映射到画布坐标
// x 从左到右铺满宽度；y 取抛物线值后映射到画布上部，顶点位于 0.2h
func (m *CelestialModule) arc(n float64) (float64, float64) {
	w, h := m.w(), m.h()
	x := n * w
	scaled := n*2*arcHalfWidth - arcHalfWidth
	arcY := arcCoefficient*scaled*scaled + arcPeak
	y := h*arcTop + (arcPeak-arcY)*(h*arcBand)/arcPeak
	return x, y
}

// Sun 太阳状态
func (m *CelestialModule) Sun() Body { return m.sun }

// Moon 月亮状态
func (m *CelestialModule) Moon() Body { return m.moon }

func (m *CelestialModule) Render(s render.Surface, _ types.Snapshot) {
	if m.sun.Visible {
		if m.mode == types.PerformanceHigh {
			m.renderRays(s, m.sun)
		}
		m.renderBody(s, m.sun, sunGlowStep)
	}
	if m.moon.Visible {
		m.renderBody(s, m.moon, moonGlowStep)
	}
}

// renderBody 多层光晕从外到内叠加，最后画实心圆盘
func (m *CelestialModule) renderBody(s render.Surface, b Body, step float64) {
	layers := types.Pick(m.mode, 8, 6, 4)
	for i := layers; i > 0; i-- {
		alpha := b.Glow * (1 - float64(i)/float64(layers))
		if alpha <= 0 {
			continue
		}
		diameter := b.Size + float64(i)*step
		s.FillCircle(b.X, b.Y, diameter/2, types.WithAlpha(b.Color, alpha*0.35))
	}
	s.FillCircle(b.X, b.Y, b.Size/2, types.WithAlpha(b.Color, 1))
}

// renderRays 太阳光芒，随时间缓慢旋转
func (m *CelestialModule) renderRays(s render.Surface, b Body) {
	c := types.WithAlpha(b.Color, b.Glow*0.3)
	s.Push()
	defer s.Pop()
	s.Translate(b.X, b.Y)
	s.Rotate(m.rayRotation())
	for i := 0; i < sunRays; i++ {
		a := float64(i) / sunRays * 2 * math.Pi
		cos, sin := math.Cos(a), math.Sin(a)
		inner, outer := b.Size*0.6, b.Size*1.5
		s.Line(cos*inner, sin*inner, cos*outer, sin*outer, 2, c)
	}
}

// rayRotation 光芒角度跟随太阳横向位置变化
func (m *CelestialModule) rayRotation() float64 {
	return math.Mod(m.sun.X*0.002, 2*math.Pi)
}
