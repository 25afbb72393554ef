package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/skycanvas/pkg/embedded"
	"github.com/decker502/skycanvas/pkg/game"
	"github.com/decker502/skycanvas/pkg/render"
	"github.com/decker502/skycanvas/pkg/types"
)

// TestDefaultSkyConfig 测试默认配置启用全部模块并通过校验
func TestDefaultSkyConfig(t *testing.T) {
	cfg := DefaultSkyConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := len(cfg.EnabledModules()); got != len(types.AllModuleTypes) {
		t.Errorf("enabled modules: got %d, want %d", got, len(types.AllModuleTypes))
	}
	if cfg.Cycle.DayDurationMs != 360000 {
		t.Errorf("day duration: got %v, want 360000", cfg.Cycle.DayDurationMs)
	}
	if cfg.Palettes.Day.Stops() != game.DefaultDayPalette {
		t.Errorf("day palette: got %v", cfg.Palettes.Day.Stops())
	}
}

func TestParseSkyConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *SkyConfig)
	}{
		{
			name: "partial config keeps defaults",
			yamlContent: `
canvas:
  width: 640
modules:
  - type: snow
    enabled: true
    priority: 5
    settings:
      maxParticles: 100
  - type: rain
    enabled: false
`,
			validate: func(t *testing.T, cfg *SkyConfig) {
				if cfg.Canvas.Width != 640 || cfg.Canvas.Height != 720 {
					t.Errorf("canvas: got %dx%d, want 640x720", cfg.Canvas.Width, cfg.Canvas.Height)
				}
				enabled := cfg.EnabledModules()
				if len(enabled) != 1 || enabled[0] != types.ModuleSnow {
					t.Errorf("enabled: got %v, want [snow]", enabled)
				}
				if cfg.Modules[0].Priority == nil || *cfg.Modules[0].Priority != 5 {
					t.Error("snow priority override not parsed")
				}
				if cfg.Palettes.Night.Stops() != game.DefaultNightPalette {
					t.Error("night palette should keep defaults")
				}
			},
		},
		{
			name: "out of range numbers are clamped",
			yamlContent: `
canvas:
  width: -5
  height: 0
cycle:
  dayDurationMs: 10
  timeMultiplier: 50
  initialProgress: 1.7
performance:
  targetFrameRate: 500
`,
			validate: func(t *testing.T, cfg *SkyConfig) {
				if cfg.Canvas.Width != 1 || cfg.Canvas.Height != 1 {
					t.Errorf("canvas: got %dx%d, want 1x1", cfg.Canvas.Width, cfg.Canvas.Height)
				}
				if cfg.Cycle.DayDurationMs != 1000 {
					t.Errorf("day duration: got %v, want 1000", cfg.Cycle.DayDurationMs)
				}
				if cfg.Cycle.TimeMultiplier != 10 {
					t.Errorf("multiplier: got %v, want 10", cfg.Cycle.TimeMultiplier)
				}
				if cfg.Cycle.InitialProgress != 1 {
					t.Errorf("initial progress: got %v, want 1", cfg.Cycle.InitialProgress)
				}
				if cfg.Performance.TargetFrameRate != 120 {
					t.Errorf("target fps: got %v, want 120", cfg.Performance.TargetFrameRate)
				}
			},
		},
		{
			name: "malformed color is not fatal",
			yamlContent: `
palettes:
  day:
    top: "not-a-color"
    middle: "#3A5A7A"
    bottom: "#4A6A8A"
    horizon: "#5A7A9A"
`,
			validate: func(t *testing.T, cfg *SkyConfig) {
				if cfg.Palettes.Day.Top != "not-a-color" {
					t.Errorf("day.top: got %q", cfg.Palettes.Day.Top)
				}
			},
		},
		{
			name:        "unknown module type",
			yamlContent: "modules:\n  - type: volcano\n    enabled: true\n",
			wantErr:     true,
			errContains: "modules[0]",
		},
		{
			name:        "duplicate module",
			yamlContent: "modules:\n  - type: snow\n  - type: Snow\n",
			wantErr:     true,
			errContains: "duplicate",
		},
		{
			name:        "invalid performance mode",
			yamlContent: "performance:\n  mode: ultra\n",
			wantErr:     true,
			errContains: "performance.mode",
		},
		{
			name:        "invalid module performance mode",
			yamlContent: "modules:\n  - type: rain\n    performanceMode: extreme\n",
			wantErr:     true,
			errContains: "rain",
		},
		{
			name: "inverted visibility window",
			yamlContent: `
responsive:
  mobile:
    sunVisibleStart: 0.6
    sunVisibleEnd: 0.2
`,
			wantErr:     true,
			errContains: "responsive.mobile",
		},
		{
			name:        "malformed yaml",
			yamlContent: "canvas: [1, 2",
			wantErr:     true,
			errContains: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// TestLoadSkyConfigFromFile 测试从外部文件加载
func TestLoadSkyConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.yaml")
	if err := os.WriteFile(path, []byte("cycle:\n  timeMultiplier: 2\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadSkyConfig(path)
	if err != nil {
		t.Fatalf("LoadSkyConfig: %v", err)
	}
	if cfg.Cycle.TimeMultiplier != 2 {
		t.Errorf("multiplier: got %v, want 2", cfg.Cycle.TimeMultiplier)
	}

	if _, err := LoadSkyConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestLoadSkyConfigEmbedded 测试读取内置配置，以及未初始化时回退到默认值
func TestLoadSkyConfigEmbedded(t *testing.T) {
	embedded.Init(nil)
	cfg, err := LoadSkyConfig("")
	if err != nil {
		t.Fatalf("uninitialized fallback: %v", err)
	}
	if cfg.Canvas.Width != DefaultSkyConfig().Canvas.Width {
		t.Error("uninitialized fallback should return defaults")
	}

	data, err := os.ReadFile(filepath.Join("..", "..", DefaultSkyConfigPath))
	if err != nil {
		t.Fatalf("read repository config: %v", err)
	}
	embedded.Init(fstest.MapFS{DefaultSkyConfigPath: {Data: data}})
	defer embedded.Init(nil)

	cfg, err = LoadSkyConfig("")
	if err != nil {
		t.Fatalf("embedded config: %v", err)
	}
	if got := len(cfg.EnabledModules()); got != 7 {
		t.Errorf("embedded config enables %d modules, want 7", got)
	}
	if cfg.Modules[0].Settings["gustIntervalMs"] != 1000 {
		t.Errorf("wind settings: got %v", cfg.Modules[0].Settings)
	}
}

type stubModule struct {
	typ      types.ModuleType
	cfg      types.ModuleConfig
	mode     types.PerformanceMode
	priority int
	inits    int
}

func (s *stubModule) Type() types.ModuleType { return s.typ }
func (s *stubModule) Name() string           { return string(s.typ) }
func (s *stubModule) DefaultPriority() int   { return s.priority }
func (s *stubModule) Initialize(cfg types.ModuleConfig) error {
	s.cfg = cfg
	s.mode = cfg.PerformanceMode
	s.inits++
	return nil
}
func (s *stubModule) Update(float64, types.Snapshot) error { return nil }
func (s *stubModule) Render(render.Surface, types.Snapshot) {}
func (s *stubModule) SetPerformanceMode(m types.PerformanceMode) { s.mode = m }

func stubFactories() map[types.ModuleType]game.ModuleFactory {
	out := make(map[types.ModuleType]game.ModuleFactory)
	for i, typ := range types.AllModuleTypes {
		typ, priority := typ, (i+1)*10
		out[typ] = func() game.Module { return &stubModule{typ: typ, priority: priority} }
	}
	return out
}

// TestManagerOptions 测试配置转换为编排器参数
func TestManagerOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
canvas:
  width: 900
  height: 500
performance:
  mode: medium
modules:
  - type: snow
    enabled: true
    priority: 1
    settings:
      maxParticles: 10
  - type: rain
    enabled: true
    performanceMode: low
  - type: wind
    enabled: false
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	mgr := game.NewModuleManager(cfg.ManagerOptions(stubFactories()))
	if w, h := mgr.Size(); w != 900 || h != 500 {
		t.Errorf("size: got %dx%d", w, h)
	}

	descs := mgr.Descriptors()
	if len(descs) != 2 {
		t.Fatalf("descriptors: got %d, want 2", len(descs))
	}
	if descs[0].Type != types.ModuleSnow || descs[0].Priority != 1 {
		t.Errorf("snow should render first with priority 1, got %+v", descs[0])
	}
	if descs[0].PerformanceMode != types.PerformanceMedium {
		t.Errorf("snow mode: got %q, want medium", descs[0].PerformanceMode)
	}
	if descs[1].PerformanceMode != types.PerformanceLow {
		t.Errorf("rain mode: got %q, want low (locked)", descs[1].PerformanceMode)
	}

	snow, _ := mgr.Module(types.ModuleSnow)
	if got := snow.(*stubModule).cfg.Int("maxParticles", 0); got != 10 {
		t.Errorf("snow settings: got maxParticles %d, want 10", got)
	}
}

// TestApply 测试热加载时应用新配置
func TestApply(t *testing.T) {
	mgr := game.NewModuleManager(DefaultSkyConfig().ManagerOptions(stubFactories()))

	next, err := Parse([]byte(`
performance:
  mode: low
cycle:
  timeMultiplier: 3
modules:
  - type: snow
    enabled: false
  - type: rain
    enabled: true
    performanceMode: high
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	next.Apply(mgr)

	if mgr.IsEnabled(types.ModuleSnow) {
		t.Error("snow should be disabled after apply")
	}
	if !mgr.IsEnabled(types.ModuleCelestial) {
		t.Error("modules not listed in the new config keep their state")
	}
	if mgr.PerformanceMode() != types.PerformanceLow {
		t.Errorf("global mode: got %q, want low", mgr.PerformanceMode())
	}
	if mgr.Cycle().TimeMultiplier != 3 {
		t.Errorf("multiplier: got %v, want 3", mgr.Cycle().TimeMultiplier)
	}
	for _, d := range mgr.Descriptors() {
		if d.Type == types.ModuleRain && d.PerformanceMode != types.PerformanceHigh {
			t.Errorf("rain should stay locked at high, got %q", d.PerformanceMode)
		}
	}
}

// TestManagerOptionsZeroCycle 测试倍速 0 和进度 0 原样传给时钟
func TestManagerOptionsZeroCycle(t *testing.T) {
	cfg, err := Parse([]byte(`
cycle:
  timeMultiplier: 0
  initialProgress: 0
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cycle.TimeMultiplier != 0 || cfg.Cycle.InitialProgress != 0 {
		t.Fatalf("parsed cycle: got %+v", cfg.Cycle)
	}

	mgr := game.NewModuleManager(cfg.ManagerOptions(stubFactories()))
	if got := mgr.Cycle().TimeMultiplier; got != 0 {
		t.Errorf("multiplier: got %v, want 0", got)
	}
	if got := mgr.Cycle().DayProgress; got != 0 {
		t.Errorf("progress: got %v, want 0", got)
	}

	// 默认配置仍然得到默认时钟
	def := game.NewModuleManager(DefaultSkyConfig().ManagerOptions(stubFactories()))
	if def.Cycle().TimeMultiplier != game.DefaultTimeMultiplier || def.Cycle().DayProgress != game.DefaultInitialProgress {
		t.Errorf("default cycle: multiplier %v progress %v", def.Cycle().TimeMultiplier, def.Cycle().DayProgress)
	}
}

// TestApplyKeepsUnchangedModules 测试热加载时参数未变的模块不会重新初始化
func TestApplyKeepsUnchangedModules(t *testing.T) {
	yamlContent := `
modules:
  - type: snow
    enabled: true
    settings:
      maxParticles: 10
  - type: rain
    enabled: true
`
	cfg, err := Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mgr := game.NewModuleManager(cfg.ManagerOptions(stubFactories()))
	snowMod, _ := mgr.Module(types.ModuleSnow)
	rainMod, _ := mgr.Module(types.ModuleRain)
	snow, rain := snowMod.(*stubModule), rainMod.(*stubModule)
	if snow.inits != 1 || rain.inits != 1 {
		t.Fatalf("initial inits: snow %d rain %d, want 1", snow.inits, rain.inits)
	}

	same, err := Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	same.Apply(mgr)
	if snow.inits != 1 || rain.inits != 1 {
		t.Errorf("unchanged reload re-initialized: snow %d rain %d", snow.inits, rain.inits)
	}

	changed, err := Parse([]byte(`
modules:
  - type: snow
    enabled: true
    settings:
      maxParticles: 20
  - type: rain
    enabled: true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	changed.Apply(mgr)
	if snow.inits != 2 {
		t.Errorf("changed settings: snow inits %d, want 2", snow.inits)
	}
	if rain.inits != 1 {
		t.Errorf("rain settings unchanged: inits %d, want 1", rain.inits)
	}
}
