package modules

import (
	"math"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
)

// 闪电参数
const (
	LightningPriority = 40

	defaultStrikeIntervalMs = 3000.0
	strikeIntervalJitter    = 0.3
	boltSegmentPx           = 15.0
	boltJitterPx            = 10.0
	boltWidth               = 3.0
	sparkCount              = 3
)

var (
	lightningGlowColor  = rgb(173, 216, 230)
	lightningBoltColor  = rgb(255, 255, 255)
	lightningSparkColor = rgb(255, 255, 200)
)

// spark 闪电末端的火花，相对末端顶点的偏移在生成闪电时确定
type spark struct {
	dx, dy, radius float64
}

type strike struct {
	path          []render.Point
	sparks        [sparkCount]spark
	intensity     float64
	glowRadius    float64
	flashDuration float64
	remaining     float64
}

// fade 剩余闪光比例 × 强度
func (s *strike) fade() float64 {
	return s.remaining / s.flashDuration * s.intensity
}

// LightningModule 夜间闪电
//
// 闪电是瞬时事件：闪光时间结束后直接从集合中移除，不做回收。
type LightningModule struct {
	base
	strikes      []strike
	interval     float64
	nextStrikeMs float64
}

// NewLightningModule 创建闪电模块
func NewLightningModule() *LightningModule {
	return &LightningModule{base: newBase(), interval: defaultStrikeIntervalMs}
}

func (m *LightningModule) Type() types.ModuleType { return types.ModuleLightning }
func (m *LightningModule) Name() string           { return "Lightning Module" }
func (m *LightningModule) DefaultPriority() int   { return LightningPriority }

func (m *LightningModule) Initialize(cfg types.ModuleConfig) error {
	m.configure(cfg)
	m.strikes = m.strikes[:0]
	m.interval = math.Max(cfg.Float("strikeIntervalMs", defaultStrikeIntervalMs), 100)
	m.nextStrikeMs = m.interval
	return nil
}

func (m *LightningModule) SetPerformanceMode(mode types.PerformanceMode) { m.mode = mode }

func (m *LightningModule) UpdateCanvasDimensions(w, h int) {
	m.width, m.height = w, h
}

func (m *LightningModule) Update(deltaMs float64, snap types.Snapshot) error {
	if !snap.IsMoonHalf() {
		m.strikes = m.strikes[:0]
		return nil
	}

	m.elapsed += deltaMs
	if m.elapsed >= m.nextStrikeMs {
		m.strikes = append(m.strikes, m.newStrike())
		m.nextStrikeMs = m.elapsed + m.rng.jitter(m.interval, strikeIntervalJitter)
	}

	live := m.strikes[:0]
	for _, s := range m.strikes {
		s.remaining -= deltaMs
		if s.remaining <= 0 {
			continue
		}
		live = append(live, s)
	}
	m.strikes = live
	return nil
}

func (m *LightningModule) newStrike() strike {
	x := m.rng.Float64() * m.w()
	flash := m.rng.between(50, 150)
	st := strike{
		path:          m.boltPath(x, m.h()),
		intensity:     m.rng.between(0.5, 0.8),
		glowRadius:    m.rng.between(15, 40),
		flashDuration: flash,
		remaining:     flash,
	}
	for i := range st.sparks {
		st.sparks[i] = spark{
			dx:     m.rng.between(-5, 5),
			dy:     m.rng.between(-5, 5),
			radius: m.rng.between(2, 4) / 2,
		}
	}
	return st
}

// boltPath 从顶部到 endY 每 15px 一个顶点，横向在 baseX 附近 ±10px 抖动
func (m *LightningModule) boltPath(baseX, endY float64) []render.Point {
	segments := int(endY / boltSegmentPx)
	if segments < 1 {
		segments = 1
	}
	path := make([]render.Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		y := float64(i) / float64(segments) * endY
		path = append(path, render.Point{X: baseX + m.rng.between(-boltJitterPx, boltJitterPx), Y: y})
	}
	return path
}

// StrikeCount 当前闪电数量
func (m *LightningModule) StrikeCount() int { return len(m.strikes) }

// Render 先画全部光晕，再画闪电主体和火花
// 绘制不消耗随机数，固定种子下的动画与绘制帧数无关
func (m *LightningModule) Render(s render.Surface, _ types.Snapshot) {
	for i := range m.strikes {
		m.renderGlow(s, &m.strikes[i])
	}
	for i := range m.strikes {
		m.renderBolt(s, &m.strikes[i])
	}
}

func (m *LightningModule) renderGlow(s render.Surface, st *strike) {
	alpha := st.fade() * 100 / 255
	layers := types.Pick(m.mode, 5, 3, 2)
	for i := layers; i > 0; i-- {
		layerAlpha := alpha * (1 - float64(i)/float64(layers)) / float64(layers)
		if layerAlpha <= 0 {
			continue
		}
		r := st.glowRadius * float64(layers-i+1) / float64(layers) / 2
		c := types.WithAlpha(lightningGlowColor, layerAlpha)
		for _, p := range st.path {
			s.FillCircle(p.X, p.Y, r, c)
		}
	}
}

func (m *LightningModule) renderBolt(s render.Surface, st *strike) {
	if len(st.path) < 2 {
		return
	}
	alpha := st.fade()
	s.StrokePolyline(st.path, boltWidth, types.WithAlpha(lightningBoltColor, alpha))

	end := st.path[len(st.path)-1]
	c := types.WithAlpha(lightningSparkColor, alpha*0.8)
	for _, sp := range st.sparks {
		s.FillCircle(end.X+sp.dx, end.Y+sp.dy, sp.radius, c)
	}
}
