package modules

import (
	"math"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
)

// 雪参数
const (
	SnowPriority = 200

	defaultMaxSnowflakes = 350
	defaultSnowInitial   = 30
	defaultSnowBuildup   = 8.0 // 每秒增加的雪花数
	snowWindStrength     = 0.5
	snowEdge             = 10.0
)

var snowColor = rgb(255, 255, 255)

type snowflake struct {
	x, y          float64
	size          float64
	speed         float64
	sway          float64
	swaySpeed     float64
	opacity       float64
	rotation      float64
	rotationSpeed float64
}

// SnowModule 夜间降雪
//
// 只在月亮半程活动，太阳半程清空全部雪花并重新从初始数量开始累积。
type SnowModule struct {
	base
	flakes    []snowflake
	maxFlakes int
	initial   int
	ramp      buildup

	star [12]render.Point
}

// NewSnowModule 创建雪模块
func NewSnowModule() *SnowModule {
	return &SnowModule{base: newBase(), maxFlakes: defaultMaxSnowflakes, initial: defaultSnowInitial}
}

func (m *SnowModule) Type() types.ModuleType { return types.ModuleSnow }
func (m *SnowModule) Name() string           { return "Snow Module" }
func (m *SnowModule) DefaultPriority() int   { return SnowPriority }

func (m *SnowModule) Initialize(cfg types.ModuleConfig) error {
	m.configure(cfg)
	m.maxFlakes = max(cfg.Int("maxParticles", defaultMaxSnowflakes), 0)
	m.initial = max(cfg.Int("initialCount", defaultSnowInitial), 0)
	m.ramp.reset(m.initial, cfg.Float("buildupRate", defaultSnowBuildup))
	m.flakes = m.flakes[:0]
	return nil
}

// SetPerformanceMode 切换画质并重新开始累积计时
func (m *SnowModule) SetPerformanceMode(mode types.PerformanceMode) {
	m.mode = mode
	m.ramp.restart()
}

// UpdateCanvasDimensions 把超出新画布的雪花拉回边界内
func (m *SnowModule) UpdateCanvasDimensions(w, h int) {
	m.width, m.height = w, h
	for i := range m.flakes {
		f := &m.flakes[i]
		f.x = math.Min(f.x, float64(w))
		f.y = math.Min(f.y, float64(h))
	}
}

// Capacity 当前画质下的雪花上限
func (m *SnowModule) Capacity() int {
	return tieredCap(m.mode, m.maxFlakes)
}

func (m *SnowModule) Update(deltaMs float64, snap types.Snapshot) error {
	if !snap.IsMoonHalf() {
		if len(m.flakes) > 0 {
			m.flakes = m.flakes[:0]
		}
		m.ramp.reset(m.initial, m.ramp.rate)
		return nil
	}

	target := m.ramp.step(deltaMs, m.Capacity())
	for len(m.flakes) < target {
		m.flakes = append(m.flakes, m.newFlake())
	}
	if len(m.flakes) > target {
		m.flakes = m.flakes[:target]
	}

	f := frameScale(deltaMs)
	w, h := m.w(), m.h()
	for i := range m.flakes {
		s := &m.flakes[i]
		s.y += s.speed * f
		s.sway += s.swaySpeed * f
		s.x += math.Sin(s.sway) * snowWindStrength * 0.5 * f
		s.rotation += s.rotationSpeed * f

		if s.y > h+snowEdge {
			s.y = -snowEdge
			s.x = m.rng.Float64() * w
		}
		if s.x < -snowEdge {
			s.x = w + snowEdge
		}
		if s.x > w+snowEdge {
			s.x = -snowEdge
		}
	}
	return nil
}

func (m *SnowModule) newFlake() snowflake {
	return snowflake{
		x:             m.rng.Float64() * m.w(),
		y:             -snowEdge,
		size:          m.rng.between(0.5, 3.5),
		speed:         m.rng.between(0.2, 1.7),
		sway:          m.rng.Float64() * 2 * math.Pi,
		swaySpeed:     m.rng.between(0.01, 0.03),
		opacity:       m.rng.between(0.2, 1),
		rotation:      m.rng.Float64() * 2 * math.Pi,
		rotationSpeed: m.rng.between(0.02, 0.07),
	}
}

// FlakeCount 当前雪花数量
func (m *SnowModule) FlakeCount() int { return len(m.flakes) }

// Render 每片雪花画成六角星
func (m *SnowModule) Render(s render.Surface, _ types.Snapshot) {
	for i := range m.flakes {
		f := &m.flakes[i]
		s.Push()
		s.Translate(f.x, f.y)
		s.Rotate(f.rotation)
		s.FillPolygon(m.starPoints(f.size), types.WithAlpha(snowColor, f.opacity))
		s.Pop()
	}
}

// starPoints 六个外顶点与六个内顶点交替
func (m *SnowModule) starPoints(size float64) []render.Point {
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		m.star[i*2] = render.Point{X: math.Cos(a) * size, Y: math.Sin(a) * size}
		m.star[i*2+1] = render.Point{
			X: math.Cos(a+math.Pi/6) * size * 0.5,
			Y: math.Sin(a+math.Pi/6) * size * 0.5,
		}
	}
	return m.star[:]
}
