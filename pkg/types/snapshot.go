package types

import "image/color"

// SnapshotVersion 快照结构版本
// 新增字段时递增，模块可据此判断可用信息
const SnapshotVersion = 1

// CycleHandoff 日月交接点
//
// 风场只在 dayProgress <= 0.5（太阳半程）活动，
// 雪和闪电只在 dayProgress > 0.5（月亮半程）活动。
// 这是模块之间约定的时间契约，不依赖 Celestial 模块的实际可见性计算。
const CycleHandoff = 0.5

// SkyColors 天空渐变的四个色标
type SkyColors struct {
	Top     color.RGBA
	Middle  color.RGBA
	Bottom  color.RGBA
	Horizon color.RGBA
}

// Stops 按 top, middle, bottom, horizon 顺序返回色标
func (c SkyColors) Stops() [4]color.RGBA {
	return [4]color.RGBA{c.Top, c.Middle, c.Bottom, c.Horizon}
}

// Hex 返回四个色标的十六进制表示，顺序同 Stops
func (c SkyColors) Hex() [4]string {
	stops := c.Stops()
	var out [4]string
	for i, s := range stops {
		out[i] = HexString(s)
	}
	return out
}

// Snapshot 每帧传给模块的只读全局状态
//
// 按值传递：模块拿到的是副本，修改它不会影响编排器或其他模块。
type Snapshot struct {
	Version          int
	DayProgress      float64
	TransitionFactor float64 // 缓动后的日夜混合系数 [0,1]
	Colors           SkyColors
	CurrentTimeMs    uint64
	FrameIndex       uint64
}

// IsSunHalf 是否处于太阳半程（含交接点）
func (s Snapshot) IsSunHalf() bool {
	return s.DayProgress <= CycleHandoff
}

// IsMoonHalf 是否处于月亮半程
func (s Snapshot) IsMoonHalf() bool {
	return s.DayProgress > CycleHandoff
}

// TimeSeconds 当前时间（秒）
func (s Snapshot) TimeSeconds() float64 {
	return float64(s.CurrentTimeMs) / 1000
}
