package modules

import (
	"image/color"
	"math"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
)

// 落叶参数
const (
	LeavesPriority = 150

	defaultMaxLeaves    = 40
	defaultLeavesStart  = 10
	defaultLeavesGrowth = 2.0 // 每秒增加的叶子数
	leavesWindStrength  = 0.3
	leafSpawnEdge       = 20.0
	leafWrapEdge        = 30.0
)

// 棕、赭、棕褐、秘鲁色、硬木色
var leafColors = []color.RGBA{
	rgb(139, 69, 19),
	rgb(160, 82, 45),
	rgb(210, 180, 140),
	rgb(205, 133, 63),
	rgb(222, 184, 135),
}

type leaf struct {
	x, y           float64
	size           float64
	speed          float64
	sway           float64
	swaySpeed      float64
	rotation       float64
	rotationSpeed  float64
	opacity        float64
	color          color.RGBA
	windResistance float64 // 受风影响的程度
}

// LeavesModule 飘落的树叶
//
// 不区分昼夜。除了自身的摆动，还会受注入风场的推动。
type LeavesModule struct {
	base
	leaves    []leaf
	maxLeaves int
	initial   int
	ramp      buildup
	wind      types.WindField
}

// NewLeavesModule 创建落叶模块
func NewLeavesModule() *LeavesModule {
	return &LeavesModule{base: newBase(), maxLeaves: defaultMaxLeaves, initial: defaultLeavesStart}
}

func (m *LeavesModule) Type() types.ModuleType { return types.ModuleLeaves }
func (m *LeavesModule) Name() string           { return "Leaves Module" }
func (m *LeavesModule) DefaultPriority() int   { return LeavesPriority }

// SetWindField 注入风场
func (m *LeavesModule) SetWindField(f types.WindField) { m.wind = f }

func (m *LeavesModule) Initialize(cfg types.ModuleConfig) error {
	m.configure(cfg)
	m.maxLeaves = max(cfg.Int("maxParticles", defaultMaxLeaves), 0)
	m.initial = max(cfg.Int("initialCount", defaultLeavesStart), 0)
	m.ramp.reset(m.initial, cfg.Float("buildupRate", defaultLeavesGrowth))

	m.leaves = m.leaves[:0]
	for i := 0; i < min(m.initial, m.Capacity()); i++ {
		m.leaves = append(m.leaves, m.newLeaf())
	}
	return nil
}

func (m *LeavesModule) SetPerformanceMode(mode types.PerformanceMode) {
	m.mode = mode
	m.ramp.restart()
}

func (m *LeavesModule) UpdateCanvasDimensions(w, h int) {
	m.width, m.height = w, h
	for i := range m.leaves {
		l := &m.leaves[i]
		l.x = math.Min(l.x, float64(w))
		l.y = math.Min(l.y, float64(h))
	}
}

// Capacity 当前画质下的叶子上限
func (m *LeavesModule) Capacity() int {
	return tieredCap(m.mode, m.maxLeaves)
}

func (m *LeavesModule) Update(deltaMs float64, _ types.Snapshot) error {
	target := m.ramp.step(deltaMs, m.Capacity())
	for len(m.leaves) < target {
		m.leaves = append(m.leaves, m.newLeaf())
	}
	if len(m.leaves) > target {
		m.leaves = m.leaves[:target]
	}

	f := frameScale(deltaMs)
	w, h := m.w(), m.h()
	for i := range m.leaves {
		l := &m.leaves[i]
		l.y += l.speed * f
		l.sway += l.swaySpeed * f
		l.x += math.Sin(l.sway) * leavesWindStrength * l.windResistance * 0.3 * f
		l.rotation += l.rotationSpeed * f

		if m.wind != nil {
			gust := m.wind.WindInfluence(l.x, l.y)
			l.x += gust.X * l.windResistance * f
			l.y += gust.Y * l.windResistance * 0.5 * f
		}

		if l.y > h+leafSpawnEdge {
			l.y = -leafSpawnEdge
			l.x = m.rng.Float64() * w
		}
		if l.x < -leafWrapEdge {
			l.x = w + leafWrapEdge
		}
		if l.x > w+leafWrapEdge {
			l.x = -leafWrapEdge
		}
	}
	return nil
}

func (m *LeavesModule) newLeaf() leaf {
	return leaf{
		x:              m.rng.between(-leafSpawnEdge, m.w()+leafSpawnEdge),
		y:              -leafSpawnEdge,
		size:           m.rng.between(8, 16),
		speed:          m.rng.between(0.5, 1.5),
		sway:           m.rng.Float64() * 2 * math.Pi,
		swaySpeed:      m.rng.between(0.01, 0.03),
		rotation:       m.rng.Float64() * 2 * math.Pi,
		rotationSpeed:  m.rng.between(0.01, 0.05),
		opacity:        m.rng.between(0.6, 0.9),
		color:          leafColors[m.rng.Intn(len(leafColors))],
		windResistance: m.rng.between(0.5, 1),
	}
}

// LeafCount 当前叶子数量
func (m *LeavesModule) LeafCount() int { return len(m.leaves) }

// Render 椭圆叶片加一段深色叶柄
func (m *LeavesModule) Render(s render.Surface, _ types.Snapshot) {
	for i := range m.leaves {
		l := &m.leaves[i]
		s.Push()
		s.Translate(l.x, l.y)
		s.Rotate(l.rotation)
		s.FillEllipse(0, 0, l.size/2, l.size*1.3/2, types.WithAlpha(l.color, l.opacity))

		stem := color.RGBA{
			R: uint8(float64(l.color.R) * 0.7),
			G: uint8(float64(l.color.G) * 0.7),
			B: uint8(float64(l.color.B) * 0.7),
			A: 255,
		}
		s.Line(0, l.size*0.6, 0, l.size*0.9, 1, types.WithAlpha(stem, l.opacity*0.8))
		s.Pop()
	}
}
