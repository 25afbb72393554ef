// Package modules 实现天空场景中的各个视觉模块
//
// 每个模块只持有自己的粒子/状态集合，通过 game.Module 接口被编排器驱动。
// 模块之间不直接访问彼此的状态；需要风力的模块通过注入的 types.WindField 读取。
package modules

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/decker502/skycanvas/pkg/types"
)

// frameMs 运动参数按 60fps 标定，每帧约 16ms
const frameMs = 16.0

// frameScale 将毫秒时间步换算为"帧"数
func frameScale(deltaMs float64) float64 {
	return deltaMs / frameMs
}

// random 模块私有的随机数源
type random struct {
	*rand.Rand
}

func newRandom(seed int64) random {
	return random{rand.New(rand.NewSource(seed))}
}

// between 返回 [lo, hi) 内的均匀随机数
func (r random) between(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// jitter 在 base 的 ±frac 范围内抖动
func (r random) jitter(base, frac float64) float64 {
	return base * (1 + (r.Float64()*2-1)*frac)
}

// base 各模块共用的画布、画质、随机数和本地时钟
type base struct {
	width    int
	height   int
	mode     types.PerformanceMode
	settings types.ModuleConfig
	rng      random
	elapsed  float64 // 模块自身累计的时间（毫秒），只在 Update 中推进
}

func newBase() base {
	return base{
		width:  800,
		height: 600,
		mode:   types.PerformanceHigh,
		rng:    newRandom(time.Now().UnixNano()),
	}
}

// Reseed 重置随机数源，用于复现同一段动画（测试或录制）
func (b *base) Reseed(seed int64) {
	b.rng = newRandom(seed)
}

func (b *base) configure(cfg types.ModuleConfig) {
	b.settings = cfg
	b.width = cfg.CanvasWidth
	b.height = cfg.CanvasHeight
	if cfg.PerformanceMode != "" {
		b.mode = cfg.PerformanceMode
	}
	b.elapsed = 0
}

func (b *base) w() float64 { return float64(b.width) }
func (b *base) h() float64 { return float64(b.height) }

// colorSetting 读取十六进制颜色配置，缺失或非法时使用默认值
func (b *base) colorSetting(key string, def color.RGBA) color.RGBA {
	s := b.settings.String(key, "")
	if s == "" {
		return def
	}
	c, ok := types.ParseHexColor(s)
	if !ok {
		return def
	}
	return c
}

// buildup 粒子数量的渐进增长
//
// 目标数量从初始值开始，按每秒 rate 个的速度增长到当前画质的上限，
// 避免粒子一下子全部出现。画质降低时目标立即收缩到新上限。
type buildup struct {
	target  int
	rate    float64
	sinceMs float64
}

func (b *buildup) reset(start int, rate float64) {
	b.target = start
	b.rate = rate
	b.sinceMs = 0
}

// restart 重新开始计时（画质变化后不补算之前的时间）
func (b *buildup) restart() {
	b.sinceMs = 0
}

// step 推进 deltaMs 并返回新的目标数量，结果不超过 ceiling
func (b *buildup) step(deltaMs float64, ceiling int) int {
	if b.target > ceiling {
		b.target = ceiling
	}
	if b.target < ceiling {
		b.sinceMs += deltaMs
		add := int(b.sinceMs / 1000 * b.rate)
		if add > 0 {
			b.target = min(b.target+add, ceiling)
			// 保留不足一个粒子的余量
			b.sinceMs -= float64(add) / b.rate * 1000
		}
	}
	return b.target
}

// tieredCap 按画质返回粒子上限：high 为全部，medium 为 75%，low 为 50%
func tieredCap(mode types.PerformanceMode, limit int) int {
	return types.Pick(mode, limit, limit*3/4, limit/2)
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
