// Package types 定义天空场景各层共享的数据类型：模块标签、画质档位、颜色与帧快照
//
// 该包不依赖 ebiten，渲染与逻辑层都可以直接引用。
package types

import (
	"fmt"
	"strings"
)

// ModuleType 视觉模块的类型标签
//
// 使用字符串而非整数，便于在 YAML 配置和命令行参数中直接书写。
type ModuleType string

const (
	ModuleCelestial ModuleType = "celestial" // 日月
	ModuleMountains ModuleType = "mountains" // 远山
	ModuleSnow      ModuleType = "snow"      // 雪
	ModuleRain      ModuleType = "rain"      // 雨
	ModuleLightning ModuleType = "lightning" // 闪电
	ModuleLeaves    ModuleType = "leaves"    // 落叶
	ModuleWind      ModuleType = "wind"      // 风场
)

// AllModuleTypes 按快捷键顺序列出全部模块类型
var AllModuleTypes = []ModuleType{
	ModuleWind,
	ModuleLightning,
	ModuleMountains,
	ModuleRain,
	ModuleCelestial,
	ModuleLeaves,
	ModuleSnow,
}

// ParseModuleType 解析模块类型字符串（不区分大小写）
func ParseModuleType(s string) (ModuleType, error) {
	t := ModuleType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllModuleTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown module type %q", s)
}

// PerformanceMode 画质档位，各模块自行决定如何降级（粒子数量、光晕层数等）
type PerformanceMode string

const (
	PerformanceHigh   PerformanceMode = "high"
	PerformanceMedium PerformanceMode = "medium"
	PerformanceLow    PerformanceMode = "low"
)

// ParsePerformanceMode 解析画质档位
//
// 无法识别的值返回 PerformanceHigh 和错误，调用方可以只记录日志后继续运行。
func ParsePerformanceMode(s string) (PerformanceMode, error) {
	switch PerformanceMode(strings.ToLower(strings.TrimSpace(s))) {
	case PerformanceHigh:
		return PerformanceHigh, nil
	case PerformanceMedium:
		return PerformanceMedium, nil
	case PerformanceLow:
		return PerformanceLow, nil
	}
	return PerformanceHigh, fmt.Errorf("unknown performance mode %q", s)
}

// Lower 返回低一档的画质（low 保持不变）
func (m PerformanceMode) Lower() PerformanceMode {
	switch m {
	case PerformanceHigh:
		return PerformanceMedium
	default:
		return PerformanceLow
	}
}

// Higher 返回高一档的画质（high 保持不变）
func (m PerformanceMode) Higher() PerformanceMode {
	switch m {
	case PerformanceLow:
		return PerformanceMedium
	default:
		return PerformanceHigh
	}
}

// Next 循环切换画质：high → medium → low → high
func (m PerformanceMode) Next() PerformanceMode {
	switch m {
	case PerformanceHigh:
		return PerformanceMedium
	case PerformanceMedium:
		return PerformanceLow
	default:
		return PerformanceHigh
	}
}

// Pick 按档位从三个候选值中选择一个
func Pick[T any](m PerformanceMode, high, medium, low T) T {
	switch m {
	case PerformanceMedium:
		return medium
	case PerformanceLow:
		return low
	default:
		return high
	}
}
