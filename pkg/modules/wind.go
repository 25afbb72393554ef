package modules

import (
	"image/color"
	"math"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
)

// 风场参数
const (
	WindPriority = 10

	defaultGustIntervalMs = 1000.0
	gustIntervalJitter    = 0.3
	maxWindMagnitude      = 2.0
	breezeHorizontal      = 0.3
	gustSpokes            = 8
)

var gustColor = rgb(255, 255, 255)

type gust struct {
	x, y     float64
	radius   float64
	strength float64
	angle    float64
	speed    float64
	life     float64
	maxLife  float64
	opacity  float64
}

// WindModule 风场：周期性生成圆形阵风，并对外提供风力查询
//
// 只在太阳半程活动，月亮半程清空所有阵风。
type WindModule struct {
	base
	gusts      []gust
	interval   float64
	nextGustMs float64
	breeze     float64
	active     bool
}

// NewWindModule 创建风场模块
func NewWindModule() *WindModule {
	return &WindModule{base: newBase(), interval: defaultGustIntervalMs}
}

func (m *WindModule) Type() types.ModuleType { return types.ModuleWind }
func (m *WindModule) Name() string           { return "Wind Module" }
func (m *WindModule) DefaultPriority() int   { return WindPriority }

// Initialize 重置阵风集合
func (m *WindModule) Initialize(cfg types.ModuleConfig) error {
	m.configure(cfg)
	m.gusts = m.gusts[:0]
	m.interval = math.Max(cfg.Float("gustIntervalMs", defaultGustIntervalMs), 50)
	m.nextGustMs = m.interval
	m.breeze = breezeAt(0)
	return nil
}

func (m *WindModule) SetPerformanceMode(mode types.PerformanceMode) { m.mode = mode }

// UpdateCanvasDimensions 更新画布尺寸，阵风保持原位
func (m *WindModule) UpdateCanvasDimensions(w, h int) {
	m.width, m.height = w, h
}

// breezeAt 缓慢变化的全局微风
func breezeAt(ms float64) float64 {
	return 0.3 + math.Sin(ms*0.001)*0.4
}

func (m *WindModule) Update(deltaMs float64, snap types.Snapshot) error {
	m.active = snap.IsSunHalf()
	if !m.active {
		m.gusts = m.gusts[:0]
		return nil
	}

	m.elapsed += deltaMs
	if m.elapsed >= m.nextGustMs {
		m.gusts = append(m.gusts, m.newGust())
		m.nextGustMs = m.elapsed + m.rng.jitter(m.interval, gustIntervalJitter)
	}

	f := frameScale(deltaMs)
	w, h := m.w(), m.h()
	live := m.gusts[:0]
	for _, g := range m.gusts {
		g.life += deltaMs
		g.x += math.Cos(g.angle) * g.speed * f
		g.y += math.Sin(g.angle) * g.speed * f
		g.opacity = (1 - g.life/g.maxLife) * m.rng.between(0.1, 0.3)

		if g.life >= g.maxLife ||
			g.x < -g.radius || g.x > w+g.radius ||
			g.y < -g.radius || g.y > h+g.radius {
			continue
		}
		live = append(live, g)
	}
	m.gusts = live
	m.breeze = breezeAt(m.elapsed)
	return nil
}

func (m *WindModule) newGust() gust {
	return gust{
		x:        m.rng.Float64() * m.w(),
		y:        m.rng.Float64() * m.h() * 0.7,
		radius:   m.rng.between(100, 250),
		strength: m.rng.between(0.5, 1.3),
		angle:    m.rng.Float64() * 2 * math.Pi,
		speed:    m.rng.between(0.8, 2.0),
		maxLife:  m.rng.between(4000, 7000),
		opacity:  m.rng.between(0.3, 0.7),
	}
}

// WindInfluence 查询某点的风力
//
// 全局微风贡献水平分量；每个覆盖该点的阵风沿离开阵风中心的方向推动，
// 强度随距离线性衰减。合力大小不超过 2.0。
func (m *WindModule) WindInfluence(x, y float64) types.WindSample {
	if !m.active {
		return types.WindSample{}
	}
	fx := m.breeze * breezeHorizontal
	fy := 0.0
	strength := m.breeze * breezeHorizontal

	for _, g := range m.gusts {
		dx, dy := x-g.x, y-g.y
		d := math.Hypot(dx, dy)
		if d >= g.radius {
			continue
		}
		influence := (1 - d/g.radius) * g.strength
		strength += influence
		if d == 0 {
			continue
		}
		fx += dx / d * influence
		fy += dy / d * influence
	}

	if mag := math.Hypot(fx, fy); mag > maxWindMagnitude {
		fx *= maxWindMagnitude / mag
		fy *= maxWindMagnitude / mag
	}
	return types.WindSample{X: fx, Y: fy, Strength: math.Min(strength, maxWindMagnitude)}
}

// GustCount 当前阵风数量
func (m *WindModule) GustCount() int { return len(m.gusts) }

// Render 用同心圆和旋转辐条表现阵风
func (m *WindModule) Render(s render.Surface, _ types.Snapshot) {
	rings := types.Pick(m.mode, 3, 2, 1)
	for _, g := range m.gusts {
		if g.opacity < 0.01 {
			continue
		}
		c := types.WithAlpha(gustColor, g.opacity*400/255)
		for i := 0; i < rings; i++ {
			// 直径按半径的 30%/60%/90% 递增
			r := g.radius * (0.3 + float64(i)*0.3) / 2
			s.StrokeCircle(g.x, g.y, r, 2, c)
			m.drawSpokes(s, g, r, c)
		}
	}
}

func (m *WindModule) drawSpokes(s render.Surface, g gust, r float64, c color.NRGBA) {
	for j := 0; j < gustSpokes; j++ {
		a := float64(j)/gustSpokes*2*math.Pi + g.life*0.01
		cos, sin := math.Cos(a), math.Sin(a)
		s.Line(g.x+cos*r*0.3, g.y+sin*r*0.3, g.x+cos*r*0.8, g.y+sin*r*0.8, 2, c)
	}
}
