package game

import (
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// DefaultBreakpoint 移动端与桌面端的分界宽度（宽度 < 1024 视为移动端）
const DefaultBreakpoint = 1024

// ResponsiveProvider 根据视口宽度给出断点相关参数
type ResponsiveProvider struct {
	Breakpoint int
	Mobile     types.ResponsiveConfig
	Desktop    types.ResponsiveConfig

	// ForceMobile 为 true 时忽略宽度，始终返回移动端配置
	ForceMobile bool
}

// DefaultMobileResponsive 移动端默认参数：日月窗口更短，天体更大
func DefaultMobileResponsive() types.ResponsiveConfig {
	return types.ResponsiveConfig{
		SunVisibleStart:  0,
		SunVisibleEnd:    0.4,
		MoonVisibleStart: 0.4,
		MoonVisibleEnd:   0.8,
		SunBaseSize:      60,
		MoonBaseSize:     78,
	}
}

// DefaultDesktopResponsive 桌面端默认参数
func DefaultDesktopResponsive() types.ResponsiveConfig {
	return types.ResponsiveConfig{
		SunVisibleStart:  0,
		SunVisibleEnd:    0.5,
		MoonVisibleStart: 0.5,
		MoonVisibleEnd:   1,
		SunBaseSize:      40,
		MoonBaseSize:     45,
	}
}

// NewResponsiveProvider 创建使用默认参数的提供者
// 在移动平台（或模拟移动端环境变量开启）时强制使用移动端配置
func NewResponsiveProvider() *ResponsiveProvider {
	return &ResponsiveProvider{
		Breakpoint:  DefaultBreakpoint,
		Mobile:      DefaultMobileResponsive(),
		Desktop:     DefaultDesktopResponsive(),
		ForceMobile: utils.IsMobile(),
	}
}

// IsMobileWidth 宽度是否落在移动端断点内
func (p *ResponsiveProvider) IsMobileWidth(width int) bool {
	if p.ForceMobile {
		return true
	}
	bp := p.Breakpoint
	if bp <= 0 {
		bp = DefaultBreakpoint
	}
	return width < bp
}

// ForWidth 返回给定宽度对应的配置
func (p *ResponsiveProvider) ForWidth(width int) types.ResponsiveConfig {
	if p.IsMobileWidth(width) {
		cfg := p.Mobile
		cfg.Breakpoint = "mobile"
		cfg.IsMobile = true
		return cfg
	}
	cfg := p.Desktop
	cfg.Breakpoint = "desktop"
	cfg.IsMobile = false
	return cfg
}
