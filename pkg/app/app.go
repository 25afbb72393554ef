// Package app 提供天空场景应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 internal/cli 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/skycanvas/pkg/config"
	"github.com/decker502/skycanvas/pkg/game"
	"github.com/decker502/skycanvas/pkg/modules"
	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
	"github.com/decker502/skycanvas/pkg/utils"
)

// DefaultAppName gdata 存储使用的应用名
const DefaultAppName = "skycanvas"

// 控制参数
const (
	multiplierStep = 0.5
	scrubStep      = 0.05
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Sky 场景配置，nil 时加载内置配置
	Sky *config.SkyConfig
	// ConfigPath 外部配置文件路径，Watch 为 true 时监视该文件
	ConfigPath string
	Watch      bool
	// Seed 非 0 时所有模块使用固定随机种子，动画可复现
	Seed int64
	// AppName gdata 存储名；NoPersist 为 true 时不读写观看偏好
	AppName   string
	NoPersist bool
	// Clock 时钟，nil 时使用单调时钟
	Clock utils.TimeProvider
}

// App 天空场景应用，实现 ebiten.Game 接口
type App struct {
	manager  *game.ModuleManager
	monitor  *game.PerformanceMonitor
	settings *game.SettingsManager
	watcher  *config.Watcher
	surface  *render.EbitenSurface
	clock    utils.TimeProvider

	width, height int
	showDebug     bool
	fullscreen    bool
	verbose       bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用内置配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	sky := cfg.Sky
	if sky == nil {
		loaded, err := config.LoadSkyConfig(cfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("场景配置加载失败: %w", err)
		}
		sky = loaded
	}

	var settings *game.SettingsManager
	if cfg.NoPersist {
		settings = game.NewSettingsManager(nil)
	} else {
		name := cfg.AppName
		if name == "" {
			name = DefaultAppName
		}
		settings = game.OpenSettingsManager(name)
	}

	factories := modules.Factories()
	if cfg.Seed != 0 {
		factories = modules.SeededFactories(cfg.Seed)
		log.Printf("[App] Using fixed seed %d", cfg.Seed)
	}

	opts := sky.ManagerOptions(factories)
	adaptive := sky.Performance.Adaptive
	saved := settings.GetSettings()
	if settings.HasSaved() {
		if enabled := settings.EnabledModules(); enabled != nil {
			opts.EnabledModules = enabled
		}
		if mode, err := types.ParsePerformanceMode(saved.PerformanceMode); err == nil {
			opts.PerformanceMode = mode
		}
		adaptive = saved.AdaptiveQuality
		log.Printf("[App] Restored viewer settings")
	}
	manager := game.NewModuleManager(opts)
	if settings.HasSaved() {
		manager.Cycle().SetTimeMultiplier(saved.TimeMultiplier)
	}

	monitor := game.NewPerformanceMonitor(manager.PerformanceMode(), adaptive)
	monitor.SetTargetFrameRate(sky.Performance.TargetFrameRate)

	clock := cfg.Clock
	if clock == nil {
		clock = utils.NewMonotonicTimeProvider()
	}

	a := &App{
		manager:    manager,
		monitor:    monitor,
		settings:   settings,
		surface:    render.NewEbitenSurface(nil, manager.PerformanceMode() != types.PerformanceLow),
		clock:      clock,
		width:      sky.Canvas.Width,
		height:     sky.Canvas.Height,
		showDebug:  saved.ShowDebug,
		fullscreen: saved.Fullscreen,
		verbose:    cfg.Verbose,
	}

	if cfg.Watch && cfg.ConfigPath != "" {
		w, err := config.NewWatcher(cfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("配置监视创建失败: %w", err)
		}
		if err := w.Start(); err != nil {
			w.Stop()
			return nil, fmt.Errorf("配置监视启动失败: %w", err)
		}
		a.watcher = w
	}

	log.Printf("[App] Initialized %d modules at %dx%d (%s)",
		len(manager.Descriptors()), a.width, a.height, manager.PerformanceMode())
	return a, nil
}

// Update 推进时钟并更新全部模块
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	a.pollReload()
	for _, action := range pressedActions() {
		a.Apply(action)
	}

	a.manager.Tick(a.clock.NowMs())
	return nil
}

// pollReload 非阻塞地读取配置变化，变化在下一次 Tick 开始时生效
func (a *App) pollReload() {
	if a.watcher == nil {
		return
	}
	select {
	case r, ok := <-a.watcher.Changes:
		if !ok {
			return
		}
		if r.Err != nil {
			log.Printf("[App] Config reload rejected: %v", r.Err)
			return
		}
		sky := r.Config
		a.monitor.SetTargetFrameRate(sky.Performance.TargetFrameRate)
		a.monitor.SetMode(sky.PerformanceMode())
		a.manager.QueueUpdate(sky.Apply)
	default:
	}
}

// Draw 绘制天空和全部模块
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.surface.SetTarget(screen)
	a.manager.Draw(a.surface)

	if mode, changed := a.monitor.RecordFrame(a.clock.NowMs()); changed {
		a.setPerformanceMode(mode)
		log.Printf("[App] Adaptive quality: %.1f fps, switching to %s", a.monitor.FrameRate(), mode)
	}

	if a.showDebug {
		drawDebugOverlay(screen, a.DebugLines())
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时用黑色填充 letterbox 区域
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑画布跟随窗口尺寸，尺寸变化在下一帧开始前推送给模块
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.manager.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// setPerformanceMode 同步全局画质到编排器、监视器和设置
func (a *App) setPerformanceMode(mode types.PerformanceMode) {
	a.manager.SetPerformanceMode(mode)
	a.monitor.SetMode(mode)
	a.surface.SetAntialias(mode != types.PerformanceLow)
	a.settings.SetPerformanceMode(mode)
}

// Manager 返回模块编排器
func (a *App) Manager() *game.ModuleManager {
	return a.manager
}

// Monitor 返回性能监视器
func (a *App) Monitor() *game.PerformanceMonitor {
	return a.monitor
}

// ShowDebug 调试信息是否可见
func (a *App) ShowDebug() bool {
	return a.showDebug
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Close 停止配置监视并保存观看偏好
// 在 ebiten.RunGame 返回后调用
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	return a.persist()
}

// persist 保存当前的观看偏好
func (a *App) persist() error {
	var enabled []types.ModuleType
	for _, d := range a.manager.Descriptors() {
		if d.IsActive {
			enabled = append(enabled, d.Type)
		}
	}
	a.settings.SetEnabledModules(enabled)
	a.settings.SetTimeMultiplier(a.manager.Cycle().TimeMultiplier)
	a.settings.SetPerformanceMode(a.manager.PerformanceMode())
	a.settings.SetAdaptiveQuality(a.monitor.Adaptive())
	a.settings.SetShowDebug(a.showDebug)
	a.settings.SetFullscreen(a.fullscreen)
	if err := a.settings.Save(); err != nil {
		return fmt.Errorf("保存设置失败: %w", err)
	}
	return nil
}

// RunOptions 窗口参数
type RunOptions struct {
	Title      string
	Fullscreen bool
	TPS        int
}

// Run 打开窗口并运行，窗口关闭后保存设置
func (a *App) Run(opts RunOptions) error {
	title := opts.Title
	if title == "" {
		title = "Sky Canvas"
	}
	ebiten.SetWindowSize(a.width, a.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	if opts.Fullscreen {
		a.fullscreen = true
	}
	ebiten.SetFullscreen(a.fullscreen)

	start := time.Now()
	err := ebiten.RunGame(a)
	log.Printf("[App] Stopped after %s", time.Since(start).Round(time.Second))

	if cerr := a.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
