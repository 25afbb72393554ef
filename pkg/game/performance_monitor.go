package game

import (
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// 自适应画质参数
const (
	DefaultTargetFrameRate = 60.0
	MinTargetFrameRate     = 30.0
	MaxTargetFrameRate     = 120.0

	// frameWindow 帧率取平均的窗口大小，每个窗口最多调整一次画质
	frameWindow = 30

	downgradeRatio = 0.8
	upgradeRatio   = 0.95
)

// PerformanceStatus 帧率相对目标的评级
type PerformanceStatus string

const (
	StatusExcellent PerformanceStatus = "excellent"
	StatusGood      PerformanceStatus = "good"
	StatusFair      PerformanceStatus = "fair"
	StatusPoor      PerformanceStatus = "poor"
)

// PerformanceMonitor 统计帧率并按需升降全局画质
//
// 平均帧率低于目标 80% 时降一档，高于 95% 时升一档。
type PerformanceMonitor struct {
	mode      types.PerformanceMode
	adaptive  bool
	target    float64
	frameRate float64

	lastFrameMs float64
	started     bool
	frameCount  uint64

	windowSum   float64
	windowCount int
}

// NewPerformanceMonitor 创建监视器
func NewPerformanceMonitor(mode types.PerformanceMode, adaptive bool) *PerformanceMonitor {
	return &PerformanceMonitor{
		mode:     mode,
		adaptive: adaptive,
		target:   DefaultTargetFrameRate,
	}
}

// RecordFrame 记录一帧的时间戳
//
// 返回当前全局画质以及本次是否发生了变化。
func (m *PerformanceMonitor) RecordFrame(nowMs float64) (types.PerformanceMode, bool) {
	if !m.started {
		m.started = true
		m.lastFrameMs = nowMs
		return m.mode, false
	}

	delta := nowMs - m.lastFrameMs
	m.lastFrameMs = nowMs
	if delta <= 0 {
		return m.mode, false
	}
	m.frameCount++
	m.windowSum += 1000 / delta
	m.windowCount++
	if m.windowCount < frameWindow {
		return m.mode, false
	}

	m.frameRate = m.windowSum / float64(m.windowCount)
	m.windowSum = 0
	m.windowCount = 0

	if !m.adaptive {
		return m.mode, false
	}

	prev := m.mode
	switch {
	case m.frameRate < m.target*downgradeRatio:
		m.mode = m.mode.Lower()
	case m.frameRate > m.target*upgradeRatio:
		m.mode = m.mode.Higher()
	}
	return m.mode, m.mode != prev
}

// Mode 当前全局画质
func (m *PerformanceMonitor) Mode() types.PerformanceMode { return m.mode }

// SetMode 手动设置画质
func (m *PerformanceMonitor) SetMode(mode types.PerformanceMode) { m.mode = mode }

// Adaptive 是否开启自适应
func (m *PerformanceMonitor) Adaptive() bool { return m.adaptive }

// SetAdaptive 开关自适应画质，切换时清空当前统计窗口
func (m *PerformanceMonitor) SetAdaptive(enabled bool) {
	m.adaptive = enabled
	m.windowSum = 0
	m.windowCount = 0
}

// ToggleAdaptive 切换自适应画质
func (m *PerformanceMonitor) ToggleAdaptive() bool {
	m.SetAdaptive(!m.adaptive)
	return m.adaptive
}

// SetTargetFrameRate 设置目标帧率，限制在 [30, 120]
func (m *PerformanceMonitor) SetTargetFrameRate(fps float64) {
	m.target = utils.Clamp(fps, MinTargetFrameRate, MaxTargetFrameRate)
}

// TargetFrameRate 目标帧率
func (m *PerformanceMonitor) TargetFrameRate() float64 { return m.target }

// FrameRate 最近一个窗口的平均帧率，窗口未满前为 0
func (m *PerformanceMonitor) FrameRate() float64 { return m.frameRate }

// FrameCount 已记录的帧数
func (m *PerformanceMonitor) FrameCount() uint64 { return m.frameCount }

// Status 帧率评级
func (m *PerformanceMonitor) Status() PerformanceStatus {
	return ClassifyFrameRate(m.frameRate, m.target)
}

// ClassifyFrameRate 按实际/目标帧率之比评级
func ClassifyFrameRate(fps, target float64) PerformanceStatus {
	if target <= 0 {
		return StatusPoor
	}
	ratio := fps / target
	switch {
	case ratio >= 0.95:
		return StatusExcellent
	case ratio >= 0.8:
		return StatusGood
	case ratio >= 0.6:
		return StatusFair
	default:
		return StatusPoor
	}
}
