package game

import (
	"fmt"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
)

// Module 视觉模块的统一生命周期
//
// 生命周期：未初始化 → 已初始化(激活) ⇄ 已初始化(停用)。
// 停用只是关闭开关，模块内部状态保留，重新启用无需重建。
// Initialize 可以重复调用，模块必须先清空自己持有的集合。
type Module interface {
	Type() types.ModuleType
	Name() string
	DefaultPriority() int

	Initialize(cfg types.ModuleConfig) error
	Update(deltaMs float64, snap types.Snapshot) error
	Render(s render.Surface, snap types.Snapshot)
	SetPerformanceMode(mode types.PerformanceMode)
}

// ModuleFactory 模块构造函数
type ModuleFactory func() Module

// DimensionAware 关心画布像素尺寸的模块
type DimensionAware interface {
	UpdateCanvasDimensions(width, height int)
}

// ResponsiveAware 接收断点相关参数的模块
type ResponsiveAware interface {
	UpdateResponsiveConfig(cfg types.ResponsiveConfig)
}

// WindConsumer 需要读取风场的模块
// 编排器在实例化时注入一个只读风场代理
type WindConsumer interface {
	SetWindField(f types.WindField)
}

// Phase 模块调用所处的阶段
type Phase string

const (
	PhaseInitialize Phase = "initialize"
	PhaseUpdate     Phase = "update"
	PhaseRender     Phase = "render"
)

// ModuleFault 模块在某个阶段返回错误或发生 panic
type ModuleFault struct {
	Type  types.ModuleType
	Phase Phase
	Err   error
}

func (f *ModuleFault) Error() string {
	return fmt.Sprintf("module %s failed during %s: %v", f.Type, f.Phase, f.Err)
}

func (f *ModuleFault) Unwrap() error {
	return f.Err
}

// ModuleDescriptor 模块状态的只读视图
type ModuleDescriptor struct {
	Type            types.ModuleType
	Name            string
	IsActive        bool
	Priority        int
	IsInitialized   bool
	Faulted         bool
	PerformanceMode types.PerformanceMode
}
