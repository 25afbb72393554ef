package game

import (
	"math"

	"github.com/decker502/skycanvas/pkg/utils"
)

// 日夜循环默认参数
const (
	DefaultDayDurationMs   = 360000.0 // 一个完整昼夜循环 6 分钟
	DefaultTimeMultiplier  = 1.0
	DefaultInitialProgress = 0.083 // 从清晨开始，天空已带一点亮色

	MinDayDurationMs  = 1000.0
	MaxTimeMultiplier = 10.0
)

// TimeOfDay 一天中的时段（仅用于调试显示）
type TimeOfDay string

const (
	TimeNight     TimeOfDay = "night"
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
)

// CycleState 昼夜循环时钟
//
// 所有时间单位为毫秒。DayProgress 始终位于 [0, 1)，
// 无论倍速多大或两次 Advance 之间相隔多久。
type CycleState struct {
	CurrentTime    float64
	DayDuration    float64
	TimeMultiplier float64
	DayProgress    float64
	IsPaused       bool
	LastUpdateTime float64
}

// NewCycleState 创建时钟，startMs 为首次 Advance 的参考时间
func NewCycleState(startMs float64) *CycleState {
	return &CycleState{
		CurrentTime:    startMs,
		DayDuration:    DefaultDayDurationMs,
		TimeMultiplier: DefaultTimeMultiplier,
		DayProgress:    DefaultInitialProgress,
		LastUpdateTime: startMs,
	}
}

// Advance 推进时钟到 nowMs，返回本次经过的墙钟时间（毫秒）
//
// 暂停时只更新 LastUpdateTime，恢复后不会补算暂停期间的进度。
func (c *CycleState) Advance(nowMs float64) float64 {
	delta := nowMs - c.LastUpdateTime
	c.LastUpdateTime = nowMs
	if c.IsPaused {
		return delta
	}

	duration := c.DayDuration
	if duration < MinDayDurationMs {
		duration = MinDayDurationMs
	}
	c.DayProgress = utils.Wrap01(c.DayProgress + delta*c.TimeMultiplier/duration)
	c.CurrentTime = nowMs
	return delta
}

// SetTimeMultiplier 设置时间倍速，限制在 [0, 10]
func (c *CycleState) SetTimeMultiplier(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	c.TimeMultiplier = utils.Clamp(v, 0, MaxTimeMultiplier)
}

// SetDayDuration 设置一个循环的时长，最小 1000ms
func (c *CycleState) SetDayDuration(ms float64) {
	if math.IsNaN(ms) || ms < MinDayDurationMs {
		ms = MinDayDurationMs
	}
	c.DayDuration = ms
}

// TogglePause 切换暂停状态
func (c *CycleState) TogglePause() {
	c.IsPaused = !c.IsPaused
}

// SetPaused 设置暂停状态
func (c *CycleState) SetPaused(paused bool) {
	c.IsPaused = paused
}

// SetDayProgress 直接设置循环进度
// 先限制到 [0, 1] 再回绕，因此 1 等价于 0
func (c *CycleState) SetDayProgress(p float64) {
	c.DayProgress = utils.Wrap01(utils.Clamp01(p))
}

// TimeOfDay 将进度划分为四个时段
func (c *CycleState) TimeOfDay() TimeOfDay {
	switch p := c.DayProgress; {
	case p < 0.25:
		return TimeNight
	case p < 0.5:
		return TimeMorning
	case p < 0.75:
		return TimeAfternoon
	default:
		return TimeEvening
	}
}
