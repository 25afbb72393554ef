package app

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/skycanvas/pkg/game"
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// Action 键盘控制动作
type Action int

const (
	ActionTogglePause Action = iota
	ActionFaster
	ActionSlower
	ActionCycleQuality
	ActionToggleAdaptive
	ActionToggleDebug
	ActionToggleFullscreen
	ActionScrubBack
	ActionScrubForward
	// ActionToggleModule1 ~ ActionToggleModule7 对应 types.AllModuleTypes 的顺序
	ActionToggleModule1
	ActionToggleModule2
	ActionToggleModule3
	ActionToggleModule4
	ActionToggleModule5
	ActionToggleModule6
	ActionToggleModule7
)

// keyBindings 按键与动作的对应关系
var keyBindings = []struct {
	keys   []ebiten.Key
	action Action
}{
	{[]ebiten.Key{ebiten.KeySpace}, ActionTogglePause},
	{[]ebiten.Key{ebiten.KeyEqual, ebiten.KeyNumpadAdd}, ActionFaster},
	{[]ebiten.Key{ebiten.KeyMinus, ebiten.KeyNumpadSubtract}, ActionSlower},
	{[]ebiten.Key{ebiten.KeyQ}, ActionCycleQuality},
	{[]ebiten.Key{ebiten.KeyA}, ActionToggleAdaptive},
	{[]ebiten.Key{ebiten.KeyD}, ActionToggleDebug},
	{[]ebiten.Key{ebiten.KeyF11}, ActionToggleFullscreen},
	{[]ebiten.Key{ebiten.KeyBracketLeft}, ActionScrubBack},
	{[]ebiten.Key{ebiten.KeyBracketRight}, ActionScrubForward},
	{[]ebiten.Key{ebiten.KeyDigit1, ebiten.KeyNumpad1}, ActionToggleModule1},
	{[]ebiten.Key{ebiten.KeyDigit2, ebiten.KeyNumpad2}, ActionToggleModule2},
	{[]ebiten.Key{ebiten.KeyDigit3, ebiten.KeyNumpad3}, ActionToggleModule3},
	{[]ebiten.Key{ebiten.KeyDigit4, ebiten.KeyNumpad4}, ActionToggleModule4},
	{[]ebiten.Key{ebiten.KeyDigit5, ebiten.KeyNumpad5}, ActionToggleModule5},
	{[]ebiten.Key{ebiten.KeyDigit6, ebiten.KeyNumpad6}, ActionToggleModule6},
	{[]ebiten.Key{ebiten.KeyDigit7, ebiten.KeyNumpad7}, ActionToggleModule7},
}

// pressedActions 本帧刚按下的键对应的动作
func pressedActions() []Action {
	var out []Action
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if inpututil.IsKeyJustPressed(k) {
				out = append(out, b.action)
				break
			}
		}
	}
	return out
}

// Apply 执行一个控制动作
// 改变观看偏好的动作会立即保存
func (a *App) Apply(action Action) {
	cycle := a.manager.Cycle()

	switch action {
	case ActionTogglePause:
		cycle.TogglePause()
		log.Printf("[App] Paused: %v", cycle.IsPaused)
		return

	case ActionScrubBack, ActionScrubForward:
		step := scrubStep
		if action == ActionScrubBack {
			step = -step
		}
		a.manager.QueueUpdate(func(m *game.ModuleManager) {
			m.Cycle().SetDayProgress(utils.Wrap01(m.Cycle().DayProgress + step))
		})
		return

	case ActionFaster:
		cycle.SetTimeMultiplier(cycle.TimeMultiplier + multiplierStep)
	case ActionSlower:
		cycle.SetTimeMultiplier(cycle.TimeMultiplier - multiplierStep)

	case ActionCycleQuality:
		a.setPerformanceMode(a.manager.PerformanceMode().Next())

	case ActionToggleAdaptive:
		a.monitor.ToggleAdaptive()

	case ActionToggleDebug:
		a.showDebug = !a.showDebug

	case ActionToggleFullscreen:
		a.toggleFullscreen()

	default:
		idx := int(action - ActionToggleModule1)
		if idx < 0 || idx >= len(types.AllModuleTypes) {
			return
		}
		t := types.AllModuleTypes[idx]
		enabled, err := a.manager.ToggleModule(t)
		if err != nil {
			log.Printf("[App] Toggle %s failed: %v", t, err)
			return
		}
		log.Printf("[App] Module %s enabled: %v", t, enabled)
	}

	if err := a.persist(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

func (a *App) toggleFullscreen() {
	a.fullscreen = !a.fullscreen
	if a.fullscreen {
		ebiten.SetFullscreen(true)
		return
	}
	// 退出全屏
	ebiten.SetFullscreen(false)
	if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
		ebiten.RestoreWindow()
	}
	// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
	a.pendingWindowSizeReset = true
	a.windowSizeResetCountdown = 3
	log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
}

// DebugLines 调试信息文本
func (a *App) DebugLines() []string {
	cycle := a.manager.Cycle()
	snap := a.manager.Snapshot()
	adaptive := "off"
	if a.monitor.Adaptive() {
		adaptive = "on"
	}

	lines := []string{
		fmt.Sprintf("FPS %.1f / %.0f (%s)", a.monitor.FrameRate(), a.monitor.TargetFrameRate(), a.monitor.Status()),
		fmt.Sprintf("Quality %s  adaptive %s", a.manager.PerformanceMode(), adaptive),
		fmt.Sprintf("Progress %.3f (%s)  blend %.2f", snap.DayProgress, cycle.TimeOfDay(), snap.TransitionFactor),
		fmt.Sprintf("Speed x%.1f  paused %v", cycle.TimeMultiplier, cycle.IsPaused),
		fmt.Sprintf("Canvas %dx%d  frame %d", a.width, a.height, snap.FrameIndex),
	}

	keyOf := make(map[types.ModuleType]int)
	for i, t := range types.AllModuleTypes {
		keyOf[t] = i + 1
	}
	for _, d := range a.manager.Descriptors() {
		state := "on"
		switch {
		case d.Faulted:
			state = "FAULT"
		case !d.IsActive:
			state = "off"
		}
		lines = append(lines, fmt.Sprintf("[%d] %-10s p%-4d %-6s %s", keyOf[d.Type], d.Type, d.Priority, d.PerformanceMode, state))
	}
	return lines
}
