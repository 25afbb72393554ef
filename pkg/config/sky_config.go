package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/skycanvas/pkg/embedded"
	"github.com/decker502/skycanvas/pkg/game"
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// DefaultSkyConfigPath 内置配置文件路径
const DefaultSkyConfigPath = "data/sky_config.yaml"

// SkyConfig 天空场景配置
//
// 配置文件位置: data/sky_config.yaml（内置），也可以通过 --config 指定外部文件。
// 缺失的字段使用 DefaultSkyConfig 中的值。
type SkyConfig struct {
	// Canvas 初始画布尺寸
	Canvas CanvasConfig `yaml:"canvas"`

	// Cycle 日夜循环参数
	Cycle CycleConfig `yaml:"cycle"`

	// Performance 画质与自适应参数
	Performance PerformanceConfig `yaml:"performance"`

	// Palettes 白天和夜晚的四色标
	Palettes PalettesConfig `yaml:"palettes"`

	// Modules 模块列表，列表顺序即首次启用顺序
	Modules []ModuleEntry `yaml:"modules"`

	// Responsive 断点相关参数
	Responsive ResponsiveSettings `yaml:"responsive"`
}

// CanvasConfig 画布尺寸
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CycleConfig 时钟参数
type CycleConfig struct {
	DayDurationMs   float64 `yaml:"dayDurationMs"`
	TimeMultiplier  float64 `yaml:"timeMultiplier"`
	InitialProgress float64 `yaml:"initialProgress"`
	Paused          bool    `yaml:"paused"`
}

// PerformanceConfig 画质参数
type PerformanceConfig struct {
	Mode            string  `yaml:"mode"`
	Adaptive        bool    `yaml:"adaptive"`
	TargetFrameRate float64 `yaml:"targetFrameRate"`
}

// PaletteConfig 四个色标，十六进制字符串
type PaletteConfig struct {
	Top     string `yaml:"top"`
	Middle  string `yaml:"middle"`
	Bottom  string `yaml:"bottom"`
	Horizon string `yaml:"horizon"`
}

// Stops 按 top, middle, bottom, horizon 顺序返回
func (p PaletteConfig) Stops() [4]string {
	return [4]string{p.Top, p.Middle, p.Bottom, p.Horizon}
}

func paletteFromStops(s [4]string) PaletteConfig {
	return PaletteConfig{Top: s[0], Middle: s[1], Bottom: s[2], Horizon: s[3]}
}

// PalettesConfig 日夜调色板
type PalettesConfig struct {
	Day   PaletteConfig `yaml:"day"`
	Night PaletteConfig `yaml:"night"`
}

// ModuleEntry 单个模块的配置
type ModuleEntry struct {
	// Type 模块类型（celestial, mountains, snow, rain, lightning, leaves, wind）
	Type string `yaml:"type"`

	// Enabled 启动时是否启用
	Enabled bool `yaml:"enabled"`

	// Priority 覆盖默认优先级，nil 表示使用模块自带的优先级
	Priority *int `yaml:"priority,omitempty"`

	// PerformanceMode 锁定该模块的画质，空字符串表示跟随全局
	PerformanceMode string `yaml:"performanceMode,omitempty"`

	// Settings 模块自定义参数
	Settings map[string]any `yaml:"settings,omitempty"`
}

// ResponsiveSettings 断点配置
type ResponsiveSettings struct {
	Breakpoint int                    `yaml:"breakpoint"`
	Mobile     types.ResponsiveConfig `yaml:"mobile"`
	Desktop    types.ResponsiveConfig `yaml:"desktop"`
}

// DefaultSkyConfig 返回内置默认配置：全部七个模块启用
func DefaultSkyConfig() *SkyConfig {
	modules := make([]ModuleEntry, 0, len(types.AllModuleTypes))
	for _, t := range types.AllModuleTypes {
		modules = append(modules, ModuleEntry{Type: string(t), Enabled: true})
	}
	return &SkyConfig{
		Canvas: CanvasConfig{Width: 1280, Height: 720},
		Cycle: CycleConfig{
			DayDurationMs:   game.DefaultDayDurationMs,
			TimeMultiplier:  game.DefaultTimeMultiplier,
			InitialProgress: game.DefaultInitialProgress,
		},
		Performance: PerformanceConfig{
			Mode:            string(types.PerformanceHigh),
			Adaptive:        true,
			TargetFrameRate: game.DefaultTargetFrameRate,
		},
		Palettes: PalettesConfig{
			Day:   paletteFromStops(game.DefaultDayPalette),
			Night: paletteFromStops(game.DefaultNightPalette),
		},
		Modules: modules,
		Responsive: ResponsiveSettings{
			Breakpoint: game.DefaultBreakpoint,
			Mobile:     game.DefaultMobileResponsive(),
			Desktop:    game.DefaultDesktopResponsive(),
		},
	}
}

// Parse 解析 YAML 配置，未出现的字段保留默认值
func Parse(data []byte) (*SkyConfig, error) {
	cfg := DefaultSkyConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sky config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sky config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadSkyConfig 加载配置
//
// path 为空时读取内置的 data/sky_config.yaml；内置资源不可用时返回默认配置。
func LoadSkyConfig(path string) (*SkyConfig, error) {
	if path == "" {
		if !embedded.IsInitialized() {
			log.Printf("[SkyConfig] Embedded data not initialized, using defaults")
			return DefaultSkyConfig(), nil
		}
		data, err := embedded.ReadFile(DefaultSkyConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded sky config: %w", err)
		}
		return Parse(data)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sky config: %w", err)
	}
	return Parse(data)
}

// Validate 检查无法通过截断修复的错误
//
// 数值越界不算错误，由 Normalize 处理；颜色格式错误只记录日志，
// 渲染时回退到黑色。
func (c *SkyConfig) Validate() error {
	if c.Performance.Mode != "" {
		if _, err := types.ParsePerformanceMode(c.Performance.Mode); err != nil {
			return fmt.Errorf("performance.mode: %w", err)
		}
	}

	seen := make(map[types.ModuleType]bool)
	for i, m := range c.Modules {
		t, err := types.ParseModuleType(m.Type)
		if err != nil {
			return fmt.Errorf("modules[%d]: %w", i, err)
		}
		if seen[t] {
			return fmt.Errorf("modules[%d]: duplicate module %q", i, t)
		}
		seen[t] = true

		if m.PerformanceMode != "" {
			if _, err := types.ParsePerformanceMode(m.PerformanceMode); err != nil {
				return fmt.Errorf("modules[%d] (%s): %w", i, t, err)
			}
		}
	}

	if err := validateWindows("responsive.mobile", c.Responsive.Mobile); err != nil {
		return err
	}
	if err := validateWindows("responsive.desktop", c.Responsive.Desktop); err != nil {
		return err
	}
	return nil
}

func validateWindows(label string, r types.ResponsiveConfig) error {
	if r.SunVisibleEnd < r.SunVisibleStart {
		return fmt.Errorf("%s: sun window end (%.2f) < start (%.2f)", label, r.SunVisibleEnd, r.SunVisibleStart)
	}
	if r.MoonVisibleEnd < r.MoonVisibleStart {
		return fmt.Errorf("%s: moon window end (%.2f) < start (%.2f)", label, r.MoonVisibleEnd, r.MoonVisibleStart)
	}
	return nil
}

// Normalize 把数值截断到合法范围
func (c *SkyConfig) Normalize() {
	if c.Canvas.Width < 1 {
		c.Canvas.Width = 1
	}
	if c.Canvas.Height < 1 {
		c.Canvas.Height = 1
	}
	if c.Cycle.DayDurationMs < game.MinDayDurationMs {
		c.Cycle.DayDurationMs = game.MinDayDurationMs
	}
	c.Cycle.TimeMultiplier = utils.Clamp(c.Cycle.TimeMultiplier, 0, game.MaxTimeMultiplier)
	c.Cycle.InitialProgress = utils.Clamp01(c.Cycle.InitialProgress)
	if c.Performance.Mode == "" {
		c.Performance.Mode = string(types.PerformanceHigh)
	}
	if c.Performance.TargetFrameRate == 0 {
		c.Performance.TargetFrameRate = game.DefaultTargetFrameRate
	}
	c.Performance.TargetFrameRate = utils.Clamp(c.Performance.TargetFrameRate, game.MinTargetFrameRate, game.MaxTargetFrameRate)
	if c.Responsive.Breakpoint <= 0 {
		c.Responsive.Breakpoint = game.DefaultBreakpoint
	}

	for _, label := range []string{"day", "night"} {
		p := c.Palettes.Day
		if label == "night" {
			p = c.Palettes.Night
		}
		for _, s := range p.Stops() {
			if _, ok := types.ParseHexColor(s); !ok {
				log.Printf("[SkyConfig] Warning: invalid %s palette color %q (renders as black)", label, s)
			}
		}
	}
}

// PerformanceMode 解析后的全局画质
func (c *SkyConfig) PerformanceMode() types.PerformanceMode {
	mode, err := types.ParsePerformanceMode(c.Performance.Mode)
	if err != nil {
		return types.PerformanceHigh
	}
	return mode
}

// EnabledModules 配置中启用的模块，保持列表顺序
func (c *SkyConfig) EnabledModules() []types.ModuleType {
	var out []types.ModuleType
	for _, m := range c.Modules {
		if !m.Enabled {
			continue
		}
		if t, err := types.ParseModuleType(m.Type); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// ModuleModes 被锁定画质的模块
func (c *SkyConfig) ModuleModes() map[types.ModuleType]types.PerformanceMode {
	out := make(map[types.ModuleType]types.PerformanceMode)
	for _, m := range c.Modules {
		t, err := types.ParseModuleType(m.Type)
		if err != nil || m.PerformanceMode == "" {
			continue
		}
		if mode, err := types.ParsePerformanceMode(m.PerformanceMode); err == nil {
			out[t] = mode
		}
	}
	return out
}

// ResponsiveProvider 根据配置构造断点提供者
func (c *SkyConfig) ResponsiveProvider() *game.ResponsiveProvider {
	p := game.NewResponsiveProvider()
	p.Breakpoint = c.Responsive.Breakpoint
	p.Mobile = c.Responsive.Mobile
	p.Desktop = c.Responsive.Desktop
	return p
}

// ManagerOptions 转换为编排器的初始配置
func (c *SkyConfig) ManagerOptions(factories map[types.ModuleType]game.ModuleFactory) game.ManagerOptions {
	priorities := make(map[types.ModuleType]int)
	settings := make(map[types.ModuleType]map[string]any)
	for _, m := range c.Modules {
		t, err := types.ParseModuleType(m.Type)
		if err != nil {
			continue
		}
		if m.Priority != nil {
			priorities[t] = *m.Priority
		}
		if len(m.Settings) > 0 {
			settings[t] = m.Settings
		}
	}

	return game.ManagerOptions{
		Width:           c.Canvas.Width,
		Height:          c.Canvas.Height,
		EnabledModules:  c.EnabledModules(),
		PerformanceMode: c.PerformanceMode(),
		Priorities:      priorities,
		CustomSettings:  settings,
		ModuleModes:     c.ModuleModes(),
		Factories:       factories,
		Cycle: game.CycleOptions{
			DayDurationMs:   c.Cycle.DayDurationMs,
			TimeMultiplier:  &c.Cycle.TimeMultiplier,
			InitialProgress: &c.Cycle.InitialProgress,
			Paused:          c.Cycle.Paused,
		},
		Palettes: game.Palettes{
			Day:   c.Palettes.Day.Stops(),
			Night: c.Palettes.Night.Stops(),
		},
		Responsive: c.ResponsiveProvider(),
	}
}

// Apply 把重新加载的配置应用到运行中的编排器
//
// 只更新可以在运行时安全切换的部分：调色板、画质、优先级、模块参数和启用状态。
// 画布尺寸和时钟进度不受影响。应在帧之间调用（通过 QueueUpdate）。
func (c *SkyConfig) Apply(m *game.ModuleManager) {
	m.SetPalettes(game.Palettes{Day: c.Palettes.Day.Stops(), Night: c.Palettes.Night.Stops()})
	m.SetPerformanceMode(c.PerformanceMode())
	m.Cycle().SetDayDuration(c.Cycle.DayDurationMs)
	m.Cycle().SetTimeMultiplier(c.Cycle.TimeMultiplier)
	m.SetResponsiveProvider(c.ResponsiveProvider())

	modes := c.ModuleModes()
	for _, entry := range c.Modules {
		t, err := types.ParseModuleType(entry.Type)
		if err != nil {
			continue
		}
		if entry.Priority != nil {
			m.SetPriority(t, *entry.Priority)
		}
		m.SetModuleSettings(t, entry.Settings)
		if err := m.SetEnabled(t, entry.Enabled); err != nil {
			log.Printf("[SkyConfig] Failed to apply module %s: %v", t, err)
			continue
		}
		m.SetModulePerformanceMode(t, modes[t])
	}
}
