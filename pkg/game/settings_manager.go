package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// ViewerSettings 观看偏好
// 只保存用户的控制选择，动画状态（进度、粒子）不持久化
type ViewerSettings struct {
	TimeMultiplier  float64  `yaml:"timeMultiplier"`  // 时间倍速 0 ~ 10
	PerformanceMode string   `yaml:"performanceMode"` // high / medium / low
	EnabledModules  []string `yaml:"enabledModules"`  // 启用的模块，nil 表示沿用配置文件
	AdaptiveQuality bool     `yaml:"adaptiveQuality"` // 自适应画质
	ShowDebug       bool     `yaml:"showDebug"`       // 调试信息

	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		TimeMultiplier:  DefaultTimeMultiplier,
		PerformanceMode: string(types.PerformanceHigh),
		AdaptiveQuality: true,
		ShowDebug:       false,
		Fullscreen:      false,
	}
}

// SettingsManager 设置管理器
// 负责观看偏好的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings
	saved        bool // 是否从存储中读到过设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，记录日志后使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// OpenSettingsManager 打开应用的 gdata 存储并创建设置管理器
// 存储不可用时退回到降级模式
func OpenSettingsManager(appName string) *SettingsManager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		return NewSettingsManager(nil)
	}
	return NewSettingsManager(manager)
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	sm.saved = false
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TimeMultiplier = utils.Clamp(loaded.TimeMultiplier, 0, MaxTimeMultiplier)
	if _, err := types.ParsePerformanceMode(loaded.PerformanceMode); err != nil {
		loaded.PerformanceMode = string(types.PerformanceHigh)
	}

	sm.settings = loaded
	sm.saved = true
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// HasSaved 是否加载到了之前保存的设置
// 为 false 时调用方应使用配置文件中的值
func (sm *SettingsManager) HasSaved() bool {
	return sm.saved
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetTimeMultiplier 设置时间倍速，限制在 [0, 10]
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetTimeMultiplier(v float64) {
	sm.settings.TimeMultiplier = utils.Clamp(v, 0, MaxTimeMultiplier)
}

// SetPerformanceMode 设置画质档位
func (sm *SettingsManager) SetPerformanceMode(mode types.PerformanceMode) {
	sm.settings.PerformanceMode = string(mode)
}

// SetEnabledModules 记录当前启用的模块
func (sm *SettingsManager) SetEnabledModules(modules []types.ModuleType) {
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, string(m))
	}
	sm.settings.EnabledModules = names
}

// EnabledModules 解析保存的模块列表，忽略无法识别的名称
// 返回 nil 表示没有保存过模块选择
func (sm *SettingsManager) EnabledModules() []types.ModuleType {
	if sm.settings.EnabledModules == nil {
		return nil
	}
	out := make([]types.ModuleType, 0, len(sm.settings.EnabledModules))
	for _, name := range sm.settings.EnabledModules {
		t, err := types.ParseModuleType(name)
		if err != nil {
			log.Printf("[SettingsManager] Ignoring saved module %q: %v", name, err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// SetAdaptiveQuality 设置自适应画质开关
func (sm *SettingsManager) SetAdaptiveQuality(enabled bool) {
	sm.settings.AdaptiveQuality = enabled
}

// SetShowDebug 设置调试信息开关
func (sm *SettingsManager) SetShowDebug(enabled bool) {
	sm.settings.ShowDebug = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}
