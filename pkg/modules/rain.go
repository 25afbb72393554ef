package modules

import (
	"math"
	"sort"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// 雨参数
const (
	RainPriority = 70

	defaultRainSpawnChance = 0.15
	rainInitialDesktop     = 15
	rainInitialMobile      = 10
	rainHorizontalBound    = 100.0
)

var (
	rainColor     = rgb(200, 220, 255)
	rainGlowColor = rgb(220, 240, 255)
)

type raindrop struct {
	x, y       float64
	z          float64 // 深度 0.3 ~ 1，越大越近
	length     float64
	speed      float64
	thickness  float64
	opacity    float64
	windOffset float64
}

// RainModule 带深度视差的雨
//
// 粒子数量不按时间增长，而是每帧做一次概率判定，直到达到画质上限；
// 落出画布的雨滴回收到顶部的随机位置。
type RainModule struct {
	base
	drops       []raindrop
	spawnChance float64
	maxDrops    int
	isMobile    bool
	wind        float64

	sorted []*raindrop
}

// NewRainModule 创建雨模块
func NewRainModule() *RainModule {
	return &RainModule{base: newBase(), spawnChance: defaultRainSpawnChance}
}

func (m *RainModule) Type() types.ModuleType { return types.ModuleRain }
func (m *RainModule) Name() string           { return "Rain Module" }
func (m *RainModule) DefaultPriority() int   { return RainPriority }

func (m *RainModule) Initialize(cfg types.ModuleConfig) error {
	m.configure(cfg)
	m.spawnChance = utils.Clamp01(cfg.Float("spawnChance", defaultRainSpawnChance))
	m.maxDrops = cfg.Int("maxParticles", 0)

	initial := rainInitialDesktop
	if m.isMobile {
		initial = rainInitialMobile
	}
	initial = min(initial, m.capacity())

	m.drops = m.drops[:0]
	for i := 0; i < initial; i++ {
		m.drops = append(m.drops, m.newDrop())
	}
	return nil
}

// capacity 当前画质下的雨滴上限
func (m *RainModule) capacity() int {
	if m.maxDrops > 0 {
		return tieredCap(m.mode, m.maxDrops)
	}
	return types.Pick(m.mode, 60, 40, 30)
}

func (m *RainModule) SetPerformanceMode(mode types.PerformanceMode) { m.mode = mode }

// UpdateResponsiveConfig 记录是否为移动端；切换时不立即补充雨滴，交给逐帧生成
func (m *RainModule) UpdateResponsiveConfig(cfg types.ResponsiveConfig) {
	m.isMobile = cfg.IsMobile
}

// UpdateCanvasDimensions 按比例平移已有雨滴
func (m *RainModule) UpdateCanvasDimensions(w, h int) {
	oldW := m.w()
	m.width, m.height = w, h
	for i := range m.drops {
		d := &m.drops[i]
		if oldW > 0 {
			d.x = d.x / oldW * float64(w)
		}
		if d.x < -rainHorizontalBound || d.x > float64(w)+rainHorizontalBound {
			d.x = m.rng.Float64() * float64(w)
		}
		if d.y > float64(h)+50 {
			d.y = m.rng.between(-150, -50)
		}
	}
}

func (m *RainModule) newDrop() raindrop {
	z := m.rng.between(0.3, 1)
	return raindrop{
		x:          m.rng.between(-50, m.w()+50),
		y:          m.rng.between(-200, -50),
		z:          z,
		speed:      utils.MapRange(z, 0.3, 1, 15, 25),
		length:     utils.MapRange(z, 0.3, 1, 20, 40),
		thickness:  utils.MapRange(z, 0.3, 1, 1, 2),
		opacity:    utils.MapRange(z, 0.3, 1, 0.3, 0.8),
		windOffset: m.rng.between(-2, 2),
	}
}

func (m *RainModule) Update(deltaMs float64, _ types.Snapshot) error {
	m.elapsed += deltaMs
	m.wind = 0.3 + math.Sin(m.elapsed*0.0005)*0.4

	f := frameScale(deltaMs)
	w, h := m.w(), m.h()
	for i := range m.drops {
		d := &m.drops[i]
		d.y += d.speed * f
		d.x += (m.wind*d.z + d.windOffset*0.1) * f

		if d.y > h+50 {
			d.y = m.rng.between(-200, -50)
			d.x = m.rng.between(-50, w+50)
			d.windOffset = m.rng.between(-2, 2)
		}
		if d.x < -rainHorizontalBound {
			d.x = w + rainHorizontalBound
		}
		if d.x > w+rainHorizontalBound {
			d.x = -rainHorizontalBound
		}
	}

	limit := m.capacity()
	if len(m.drops) > limit {
		m.drops = m.drops[:limit]
	}
	if len(m.drops) < limit && m.rng.Float64() < m.spawnChance {
		m.drops = append(m.drops, m.newDrop())
	}
	return nil
}

// DropCount 当前雨滴数量
func (m *RainModule) DropCount() int { return len(m.drops) }

// Render 由远到近绘制，近处的雨滴额外加一道光晕线
func (m *RainModule) Render(s render.Surface, _ types.Snapshot) {
	m.sorted = m.sorted[:0]
	for i := range m.drops {
		m.sorted = append(m.sorted, &m.drops[i])
	}
	sort.SliceStable(m.sorted, func(i, j int) bool { return m.sorted[i].z < m.sorted[j].z })

	for _, d := range m.sorted {
		x := d.x + (d.z-1)*50
		tailX := x - d.windOffset*2
		s.Line(x, d.y, tailX, d.y-d.length, d.thickness, types.WithAlpha(rainColor, d.opacity))

		if d.z > 0.7 {
			s.Line(x, d.y, tailX, d.y-d.length*0.8, d.thickness*2, types.WithAlpha(rainGlowColor, d.opacity*0.3))
		}
	}
}
