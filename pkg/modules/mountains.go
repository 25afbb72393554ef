package modules

import (
	"image/color"
	"math"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// 山脉参数
const (
	MountainsPriority = 50

	// significantResize 超过该像素变化才重新生成轮廓
	significantResize = 50
	// narrowWidth 窄屏下山更高一些
	narrowWidth = 768
)

type mountainLayer struct {
	noiseScale   float64 // 轮廓起伏频率
	heightFactor float64 // 相对画布高度
	color        color.RGBA
	speed        float64 // 滚动速度系数，越远越慢
	offset       float64
}

// defaultMountainLayers 由近到远
func defaultMountainLayers() []mountainLayer {
	return []mountainLayer{
		{noiseScale: 0.008, heightFactor: 0.04, color: types.MustHex("#4A2C2A"), speed: 0.4},
		{noiseScale: 0.005, heightFactor: 0.08, color: types.MustHex("#6B4C3A"), speed: 0.3},
		{noiseScale: 0.008, heightFactor: 0.12, color: types.MustHex("#8B6B47"), speed: 0.15},
		{noiseScale: 0.006, heightFactor: 0.16, color: types.MustHex("#A68B5B"), speed: 0.05},
	}
}

// MountainsModule 四层视差山脉，轮廓来自 Perlin 噪声
type MountainsModule struct {
	base
	layers      []mountainLayer
	noise       render.NoiseSource
	scrollSpeed float64
	generation  int // 轮廓重新生成的次数

	points []render.Point
}

// NewMountainsModule 创建山脉模块
func NewMountainsModule() *MountainsModule {
	return &MountainsModule{base: newBase(), scrollSpeed: 2}
}

func (m *MountainsModule) Type() types.ModuleType { return types.ModuleMountains }
func (m *MountainsModule) Name() string           { return "Mountains Module" }
func (m *MountainsModule) DefaultPriority() int   { return MountainsPriority }

func (m *MountainsModule) Initialize(cfg types.ModuleConfig) error {
	m.configure(cfg)
	m.applyScrollSpeed()
	m.regenerate()
	return nil
}

// regenerate 重置各层偏移并用新种子生成噪声
func (m *MountainsModule) regenerate() {
	m.layers = defaultMountainLayers()
	m.noise = render.NewPerlinNoise(m.rng.Int63())
	m.generation++
}

func (m *MountainsModule) applyScrollSpeed() {
	m.scrollSpeed = m.settings.Float("scrollSpeed", types.Pick(m.mode, 2.0, 1.5, 1.0))
}

func (m *MountainsModule) SetPerformanceMode(mode types.PerformanceMode) {
	m.mode = mode
	m.applyScrollSpeed()
}

// UpdateCanvasDimensions 只有尺寸变化超过 50px（或之前尺寸为 0）时才重新生成轮廓
func (m *MountainsModule) UpdateCanvasDimensions(w, h int) {
	prevW, prevH := m.width, m.height
	m.width, m.height = w, h

	significant := absInt(w-prevW) > significantResize || absInt(h-prevH) > significantResize
	if significant || prevW == 0 || prevH == 0 {
		m.regenerate()
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Generation 轮廓生成次数，每次重新生成加一
func (m *MountainsModule) Generation() int { return m.generation }

func (m *MountainsModule) Update(deltaMs float64, _ types.Snapshot) error {
	f := frameScale(deltaMs)
	for i := range m.layers {
		l := &m.layers[i]
		l.offset += m.scrollSpeed * l.speed * l.noiseScale * f
	}
	return nil
}

// heightFactor 窄屏放大 40%，宽屏放大 15%，结果限制在 [0.02, 0.25]
func (m *MountainsModule) heightFactor(l mountainLayer) float64 {
	scale := 1.15
	if m.width < narrowWidth {
		scale = 1.4
	}
	return utils.Clamp(l.heightFactor*scale, 0.02, 0.25)
}

// profile 计算某一层的轮廓多边形（含底边两个角点）
func (m *MountainsModule) profile(l mountainLayer) []render.Point {
	w, h := m.w(), m.h()
	step := types.Pick(m.mode, 1.0, 2.0, 4.0)
	factor := m.heightFactor(l)

	pts := m.points[:0]
	for x := 0.0; ; x += step {
		if x > w {
			x = w
		}
		y := m.noise.Noise1D(x*l.noiseScale+l.offset) * h * factor
		pts = append(pts, render.Point{X: x, Y: h - y})
		if x >= w {
			break
		}
	}
	pts = append(pts, render.Point{X: w, Y: h}, render.Point{X: 0, Y: h})
	m.points = pts
	return pts
}

// Render 由远到近绘制，近处的山遮挡远处
func (m *MountainsModule) Render(s render.Surface, _ types.Snapshot) {
	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]
		s.FillPolygon(m.profile(l), types.WithAlpha(l.color, 1))
	}
}

// PeakHeight 某层当前最高点距画布底部的像素高度
func (m *MountainsModule) PeakHeight(layer int) float64 {
	if layer < 0 || layer >= len(m.layers) {
		return 0
	}
	peak := 0.0
	for _, p := range m.profile(m.layers[layer]) {
		peak = math.Max(peak, m.h()-p.Y)
	}
	return peak
}
