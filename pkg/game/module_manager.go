package game

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// MaxFrameDeltaMs 单帧传给模块的最大时间步长
// 窗口被切到后台再切回时，粒子不会一下跳出很远；时钟本身仍使用完整的时间差
const MaxFrameDeltaMs = 100.0

// horizonBand 地平线光带占画布高度的比例
const horizonBand = 0.12

var (
	// ErrNoFactory 模块类型没有注册工厂
	ErrNoFactory = errors.New("no factory registered")
	// ErrModuleFaulted 模块已因故障被停用，本次会话内不能再启用
	ErrModuleFaulted = errors.New("module is faulted")
)

// Palettes 白天与夜晚的四色标调色板（十六进制）
type Palettes struct {
	Day   [4]string
	Night [4]string
}

// CycleOptions 时钟初始参数
// DayDurationMs 为 0 时使用默认周期；TimeMultiplier 和 InitialProgress 为 nil 时使用默认值，
// 0 是合法取值（冻结时间、从午夜开始）
type CycleOptions struct {
	DayDurationMs   float64
	TimeMultiplier  *float64
	InitialProgress *float64
	Paused          bool
	StartMs         float64
}

// ManagerOptions 编排器的初始配置
type ManagerOptions struct {
	Width           int
	Height          int
	EnabledModules  []types.ModuleType
	PerformanceMode types.PerformanceMode

	// Priorities 覆盖模块的默认优先级
	Priorities map[types.ModuleType]int
	// CustomSettings 每个模块的自定义参数，初始化时透传给模块
	CustomSettings map[types.ModuleType]map[string]any
	// ModuleModes 单独锁定画质的模块
	ModuleModes map[types.ModuleType]types.PerformanceMode

	// Factories 预先注册的模块工厂，EnabledModules 中的模块按顺序启用
	Factories map[types.ModuleType]ModuleFactory

	Cycle      CycleOptions
	Palettes   Palettes
	Responsive *ResponsiveProvider
}

type moduleEntry struct {
	module      Module
	typ         types.ModuleType
	name        string
	priority    int
	seq         int
	active      bool
	initialized bool
	faulted     bool
	mode        types.PerformanceMode
	modeLocked  bool
}

type canvasSize struct {
	width, height int
}

// ModuleManager 模块注册表与逐帧编排器
//
// 它是唯一持有可变全局状态（时钟、颜色）的对象，每帧把一份只读快照
// 按优先级升序依次传给模块的 Update，然后按同样顺序调用 Render。
// 任何模块出错都只会让它自己停用，不影响同一帧中的其他模块。
//
// Tick/Draw 以及启用、优先级等操作都应在帧循环所在的 goroutine 调用；
// Resize 和 QueueUpdate 可以从任意 goroutine 调用，变更在下一次 Tick 开始时生效。
type ModuleManager struct {
	factories map[types.ModuleType]ModuleFactory
	entries   map[types.ModuleType]*moduleEntry
	order     []*moduleEntry
	nextSeq   int

	priorities map[types.ModuleType]int
	settings   map[types.ModuleType]map[string]any

	width  int
	height int
	mode   types.PerformanceMode

	cycle  *CycleState
	colors *SkyColorModel
	snap   types.Snapshot
	frame  uint64

	responsive    *ResponsiveProvider
	responsiveCfg types.ResponsiveConfig

	wind   *windProxy
	faults []*ModuleFault

	mu            sync.Mutex
	pendingResize *canvasSize
	pending       []func(*ModuleManager)
}

// NewModuleManager 创建编排器，并按 EnabledModules 的顺序启用已有工厂的模块
func NewModuleManager(opts ManagerOptions) *ModuleManager {
	mode := opts.PerformanceMode
	if mode == "" {
		mode = types.PerformanceHigh
	}
	responsive := opts.Responsive
	if responsive == nil {
		responsive = NewResponsiveProvider()
	}
	day, night := opts.Palettes.Day, opts.Palettes.Night
	if day == ([4]string{}) {
		day = DefaultDayPalette
	}
	if night == ([4]string{}) {
		night = DefaultNightPalette
	}

	m := &ModuleManager{
		factories:  make(map[types.ModuleType]ModuleFactory),
		entries:    make(map[types.ModuleType]*moduleEntry),
		priorities: make(map[types.ModuleType]int),
		settings:   make(map[types.ModuleType]map[string]any),
		width:      clampDimension(opts.Width),
		height:     clampDimension(opts.Height),
		mode:       mode,
		cycle:      newCycleFromOptions(opts.Cycle),
		colors:     NewSkyColorModel(day, night),
		responsive: responsive,
	}
	m.wind = &windProxy{m: m}
	m.responsiveCfg = responsive.ForWidth(m.width)

	for t, p := range opts.Priorities {
		m.priorities[t] = p
	}
	for t, s := range opts.CustomSettings {
		m.settings[t] = s
	}
	m.refreshSnapshot(0)

	for t, f := range opts.Factories {
		m.RegisterFactory(t, f)
	}
	for _, t := range opts.EnabledModules {
		if err := m.SetEnabled(t, true); err != nil {
			log.Printf("[ModuleManager] Failed to enable %s: %v", t, err)
		}
	}
	for t, mode := range opts.ModuleModes {
		m.SetModulePerformanceMode(t, mode)
	}
	return m
}

func newCycleFromOptions(o CycleOptions) *CycleState {
	c := NewCycleState(o.StartMs)
	if o.DayDurationMs != 0 {
		c.SetDayDuration(o.DayDurationMs)
	}
	if o.TimeMultiplier != nil {
		c.SetTimeMultiplier(*o.TimeMultiplier)
	}
	if o.InitialProgress != nil {
		c.SetDayProgress(*o.InitialProgress)
	}
	c.SetPaused(o.Paused)
	return c
}

func clampDimension(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// RegisterFactory 注册（或替换）某类型的模块工厂
// 已经实例化的模块不受影响
func (m *ModuleManager) RegisterFactory(t types.ModuleType, f ModuleFactory) {
	m.factories[t] = f
}

// SetEnabled 启用或停用模块
//
// 首次启用时通过工厂实例化并初始化；之后只切换激活状态。
// 已故障的模块不能再次启用，返回 ErrModuleFaulted。
func (m *ModuleManager) SetEnabled(t types.ModuleType, enabled bool) error {
	e, ok := m.entries[t]
	if !enabled {
		if ok {
			e.active = false
		}
		return nil
	}
	if ok {
		if e.faulted {
			return fmt.Errorf("enable %s: %w", t, ErrModuleFaulted)
		}
		e.active = true
		return nil
	}
	return m.instantiate(t)
}

// ToggleModule 切换模块启用状态，返回切换后的状态
func (m *ModuleManager) ToggleModule(t types.ModuleType) (bool, error) {
	enabled := !m.IsEnabled(t)
	if err := m.SetEnabled(t, enabled); err != nil {
		return m.IsEnabled(t), err
	}
	return enabled, nil
}

// IsEnabled 模块是否处于激活状态
func (m *ModuleManager) IsEnabled(t types.ModuleType) bool {
	e, ok := m.entries[t]
	return ok && e.active
}

func (m *ModuleManager) instantiate(t types.ModuleType) error {
	factory, ok := m.factories[t]
	if !ok || factory == nil {
		return fmt.Errorf("enable %s: %w", t, ErrNoFactory)
	}

	mod, err := callFactory(factory)
	if err != nil {
		fault := &ModuleFault{Type: t, Phase: PhaseInitialize, Err: err}
		m.faults = append(m.faults, fault)
		log.Printf("[ModuleManager] %v", fault)
		return fault
	}

	e := &moduleEntry{
		module:   mod,
		typ:      t,
		name:     mod.Name(),
		priority: mod.DefaultPriority(),
		seq:      m.nextSeq,
		mode:     m.mode,
	}
	m.nextSeq++
	if p, ok := m.priorities[t]; ok {
		e.priority = p
	}
	m.entries[t] = e
	m.order = append(m.order, e)
	m.sortOrder()

	if wc, ok := mod.(WindConsumer); ok {
		wc.SetWindField(m.wind)
	}
	if ra, ok := mod.(ResponsiveAware); ok {
		cfg := m.responsiveCfg
		if fault := m.guard(e, PhaseInitialize, func() error {
			ra.UpdateResponsiveConfig(cfg)
			return nil
		}); fault != nil {
			return fault
		}
	}
	if fault := m.guard(e, PhaseInitialize, func() error {
		return mod.Initialize(m.moduleConfig(e))
	}); fault != nil {
		return fault
	}

	e.initialized = true
	e.active = true
	log.Printf("[ModuleManager] Module %s initialized (priority %d)", e.name, e.priority)
	return nil
}

func callFactory(f ModuleFactory) (mod Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory panic: %v", r)
		}
	}()
	mod = f()
	if mod == nil {
		return nil, errors.New("factory returned nil")
	}
	return mod, nil
}

func (m *ModuleManager) moduleConfig(e *moduleEntry) types.ModuleConfig {
	return types.ModuleConfig{
		CanvasWidth:     m.width,
		CanvasHeight:    m.height,
		PerformanceMode: e.mode,
		CustomSettings:  m.settings[e.typ],
	}
}

// sortOrder 按优先级升序稳定排序，同优先级保持首次启用的顺序
func (m *ModuleManager) sortOrder() {
	sort.SliceStable(m.order, func(i, j int) bool {
		if m.order[i].priority != m.order[j].priority {
			return m.order[i].priority < m.order[j].priority
		}
		return m.order[i].seq < m.order[j].seq
	})
}

// SetPriority 修改模块优先级并重新排序
// 尚未实例化的模块会在实例化时使用该优先级
func (m *ModuleManager) SetPriority(t types.ModuleType, priority int) {
	m.priorities[t] = priority
	if e, ok := m.entries[t]; ok {
		e.priority = priority
		m.sortOrder()
	}
}

// guard 调用模块方法，把返回的错误和 panic 统一转换为 ModuleFault
// 出错的模块被停用并标记为故障
func (m *ModuleManager) guard(e *moduleEntry, phase Phase, fn func() error) (fault *ModuleFault) {
	defer func() {
		if r := recover(); r != nil {
			fault = &ModuleFault{Type: e.typ, Phase: phase, Err: fmt.Errorf("panic: %v", r)}
		}
		if fault != nil {
			e.active = false
			e.faulted = true
			m.faults = append(m.faults, fault)
			log.Printf("[ModuleManager] %v (module disabled)", fault)
		}
	}()
	if err := fn(); err != nil {
		fault = &ModuleFault{Type: e.typ, Phase: phase, Err: err}
	}
	return fault
}

func (e *moduleEntry) runnable() bool {
	return e.active && e.initialized && !e.faulted
}

// Resize 请求调整画布尺寸，在下一次 Tick 开始时生效
// 连续多次调用只保留最后一次
func (m *ModuleManager) Resize(width, height int) {
	m.mu.Lock()
	m.pendingResize = &canvasSize{width: width, height: height}
	m.mu.Unlock()
}

// QueueUpdate 排队一个配置变更，在下一次 Tick 开始时于帧循环 goroutine 中执行
func (m *ModuleManager) QueueUpdate(fn func(*ModuleManager)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

func (m *ModuleManager) applyPending() {
	m.mu.Lock()
	resize := m.pendingResize
	m.pendingResize = nil
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range pending {
		fn(m)
	}
	if resize != nil {
		m.applyResize(resize.width, resize.height)
	}
}

func (m *ModuleManager) applyResize(width, height int) {
	width, height = clampDimension(width), clampDimension(height)
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height

	for _, e := range m.order {
		if !e.initialized || e.faulted {
			continue
		}
		if da, ok := e.module.(DimensionAware); ok {
			m.guard(e, PhaseUpdate, func() error {
				da.UpdateCanvasDimensions(width, height)
				return nil
			})
		}
	}

	cfg := m.responsive.ForWidth(width)
	if cfg.IsMobile == m.responsiveCfg.IsMobile {
		return
	}
	m.responsiveCfg = cfg
	log.Printf("[ModuleManager] Breakpoint changed to %s (width %d)", cfg.Breakpoint, width)
	m.pushResponsive()
}

func (m *ModuleManager) pushResponsive() {
	cfg := m.responsiveCfg
	for _, e := range m.order {
		if !e.initialized || e.faulted {
			continue
		}
		if ra, ok := e.module.(ResponsiveAware); ok {
			m.guard(e, PhaseUpdate, func() error {
				ra.UpdateResponsiveConfig(cfg)
				return nil
			})
		}
	}
}

// SetResponsiveProvider 替换响应式参数来源并立即推送给模块
func (m *ModuleManager) SetResponsiveProvider(p *ResponsiveProvider) {
	if p == nil {
		return
	}
	m.responsive = p
	m.responsiveCfg = p.ForWidth(m.width)
	m.pushResponsive()
}

// Tick 推进一帧的状态：应用排队的变更、推进时钟、重算颜色，
// 然后按优先级升序调用所有激活模块的 Update
func (m *ModuleManager) Tick(nowMs float64) {
	m.applyPending()

	delta := m.cycle.Advance(nowMs)
	m.frame++
	m.refreshSnapshot(nowMs)

	step := utils.Clamp(delta, 0, MaxFrameDeltaMs)
	snap := m.snap
	for _, e := range m.order {
		if !e.runnable() {
			continue
		}
		mod := e.module
		m.guard(e, PhaseUpdate, func() error {
			return mod.Update(step, snap)
		})
	}
}

func (m *ModuleManager) refreshSnapshot(nowMs float64) {
	p := m.cycle.DayProgress
	colors := m.colors.Recompute(p)
	m.snap = types.Snapshot{
		Version:          types.SnapshotVersion,
		DayProgress:      p,
		TransitionFactor: m.colors.Factor(),
		Colors:           colors,
		CurrentTimeMs:    uint64(math.Max(nowMs, 0)),
		FrameIndex:       m.frame,
	}
}

// Draw 清屏、绘制天空渐变，然后按同样的顺序调用所有激活模块的 Render
func (m *ModuleManager) Draw(s render.Surface) {
	snap := m.snap
	s.Clear(snap.Colors.Top)
	m.drawSky(s, snap.Colors)

	for _, e := range m.order {
		if !e.runnable() {
			continue
		}
		mod := e.module
		m.guard(e, PhaseRender, func() error {
			s.Push()
			defer s.Pop()
			mod.Render(s, snap)
			return nil
		})
	}
}

// Frame 完整的一帧：Tick 后 Draw
func (m *ModuleManager) Frame(nowMs float64, s render.Surface) {
	m.Tick(nowMs)
	m.Draw(s)
}

// drawSky 上半部分 top→middle，下半部分 middle→bottom，底部叠加地平线光带
func (m *ModuleManager) drawSky(s render.Surface, c types.SkyColors) {
	w, h := float64(s.Width()), float64(s.Height())
	if w <= 0 || h <= 0 {
		return
	}
	band := types.Pick(m.mode, 1.0, 2.0, 4.0)

	for y := 0.0; y < h; y += band {
		inter := y / h
		var col color.RGBA
		if inter < 0.5 {
			col = blendRGB(c.Top, c.Middle, inter*2)
		} else {
			col = blendRGB(c.Middle, c.Bottom, (inter-0.5)*2)
		}
		s.FillRect(0, y, w, band, types.WithAlpha(col, 1))
	}

	top := h * (1 - horizonBand)
	for y := top; y < h; y += band {
		alpha := (y - top) / (h - top) * 0.5
		s.FillRect(0, y, w, band, types.WithAlpha(c.Horizon, alpha))
	}
}

// SetPerformanceMode 广播全局画质，被单独锁定档位的模块不受影响
func (m *ModuleManager) SetPerformanceMode(mode types.PerformanceMode) {
	m.mode = mode
	for _, e := range m.order {
		if e.modeLocked || e.faulted {
			continue
		}
		e.mode = mode
		m.applyModuleMode(e)
	}
}

// SetModulePerformanceMode 单独设置某个模块的画质并锁定，不再跟随全局档位
// mode 为空字符串时解除锁定并恢复为全局档位
func (m *ModuleManager) SetModulePerformanceMode(t types.ModuleType, mode types.PerformanceMode) {
	e, ok := m.entries[t]
	if !ok || e.faulted {
		return
	}
	if mode == "" {
		e.modeLocked = false
		e.mode = m.mode
	} else {
		e.modeLocked = true
		e.mode = mode
	}
	m.applyModuleMode(e)
}

func (m *ModuleManager) applyModuleMode(e *moduleEntry) {
	mod, mode := e.module, e.mode
	m.guard(e, PhaseUpdate, func() error {
		mod.SetPerformanceMode(mode)
		return nil
	})
}

// SetModuleSettings 替换模块的自定义参数
// 参数有变化时，已初始化的模块会立即重新初始化；参数相同则保持粒子等运行状态
func (m *ModuleManager) SetModuleSettings(t types.ModuleType, settings map[string]any) {
	if sameSettings(m.settings[t], settings) {
		return
	}
	m.settings[t] = settings
	e, ok := m.entries[t]
	if !ok || !e.initialized || e.faulted {
		return
	}
	mod := e.module
	m.guard(e, PhaseInitialize, func() error {
		return mod.Initialize(m.moduleConfig(e))
	})
}

func sameSettings(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// SetPalettes 替换日夜调色板
func (m *ModuleManager) SetPalettes(p Palettes) {
	m.colors = NewSkyColorModel(p.Day, p.Night)
	m.colors.Recompute(m.cycle.DayProgress)
	m.snap.Colors = m.colors.Current
	m.snap.TransitionFactor = m.colors.Factor()
}

// Descriptors 按渲染顺序返回所有已实例化模块的状态副本
func (m *ModuleManager) Descriptors() []ModuleDescriptor {
	out := make([]ModuleDescriptor, 0, len(m.order))
	for _, e := range m.order {
		out = append(out, ModuleDescriptor{
			Type:            e.typ,
			Name:            e.name,
			IsActive:        e.active,
			Priority:        e.priority,
			IsInitialized:   e.initialized,
			Faulted:         e.faulted,
			PerformanceMode: e.mode,
		})
	}
	return out
}

// Module 返回已实例化的模块
func (m *ModuleManager) Module(t types.ModuleType) (Module, bool) {
	e, ok := m.entries[t]
	if !ok {
		return nil, false
	}
	return e.module, true
}

// Faults 本次会话中记录的所有模块故障
func (m *ModuleManager) Faults() []*ModuleFault {
	return append([]*ModuleFault(nil), m.faults...)
}

// Snapshot 最近一次 Tick 生成的快照
func (m *ModuleManager) Snapshot() types.Snapshot { return m.snap }

// Cycle 昼夜时钟（供宿主调整倍速、暂停等）
func (m *ModuleManager) Cycle() *CycleState { return m.cycle }

// Colors 当前天空调色板
func (m *ModuleManager) Colors() types.SkyColors { return m.colors.Current }

// PerformanceMode 全局画质
func (m *ModuleManager) PerformanceMode() types.PerformanceMode { return m.mode }

// ResponsiveConfig 当前生效的响应式参数
func (m *ModuleManager) ResponsiveConfig() types.ResponsiveConfig { return m.responsiveCfg }

// Size 当前画布尺寸（已应用的尺寸，不含尚在排队的 Resize）
func (m *ModuleManager) Size() (int, int) { return m.width, m.height }

// windProxy 对外暴露的只读风场
// 风场模块未启用、故障或处于停用状态时返回零风力
type windProxy struct {
	m *ModuleManager
}

func (w *windProxy) WindInfluence(x, y float64) types.WindSample {
	e, ok := w.m.entries[types.ModuleWind]
	if !ok || !e.runnable() {
		return types.WindSample{}
	}
	field, ok := e.module.(types.WindField)
	if !ok {
		return types.WindSample{}
	}
	return field.WindInfluence(x, y)
}
