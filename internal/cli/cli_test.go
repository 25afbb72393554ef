package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/decker502/skycanvas/pkg/config"
	"github.com/decker502/skycanvas/pkg/game"
	"github.com/decker502/skycanvas/pkg/types"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

// TestModulesCommand 测试模块列表按优先级排序
func TestModulesCommand(t *testing.T) {
	out := runCommand(t, "modules")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(types.AllModuleTypes)+1 {
		t.Fatalf("lines: got %d, want %d\n%s", len(lines), len(types.AllModuleTypes)+1, out)
	}
	// 优先级最低的风场排在最前
	if !strings.Contains(lines[1], string(types.ModuleWind)) {
		t.Errorf("first row: got %q, want wind", lines[1])
	}
	if !strings.Contains(lines[len(lines)-1], string(types.ModuleSnow)) {
		t.Errorf("last row: got %q, want snow", lines[len(lines)-1])
	}
}

// TestModulesCommandEnv 测试环境变量覆盖画质
func TestModulesCommandEnv(t *testing.T) {
	t.Setenv("SKYCANVAS_PERFORMANCE", "low")
	out := runCommand(t, "modules")
	if strings.Contains(out, " high ") {
		t.Errorf("expected every module at low quality:\n%s", out)
	}
	if !strings.Contains(out, " low ") {
		t.Errorf("expected low quality in output:\n%s", out)
	}
}

// TestPaletteCommand 测试指定进度的色标输出
func TestPaletteCommand(t *testing.T) {
	out := runCommand(t, "palette", "0", "0.25")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want 3\n%s", len(lines), out)
	}
	night := strings.ToLower(game.DefaultNightPalette[0])
	day := strings.ToLower(game.DefaultDayPalette[0])
	if !strings.Contains(lines[1], night) {
		t.Errorf("progress 0: got %q, want night top %s", lines[1], night)
	}
	if !strings.Contains(lines[2], day) {
		t.Errorf("progress 0.25: got %q, want day top %s", lines[2], day)
	}
}

// TestPaletteCommandSteps 测试均匀采样
func TestPaletteCommandSteps(t *testing.T) {
	out := runCommand(t, "palette", "--steps", "4")
	if got := strings.Count(out, "\n"); got != 5 {
		t.Errorf("lines: got %d, want 5\n%s", got, out)
	}
}

// TestPaletteCommandBadProgress 测试非法进度参数
func TestPaletteCommandBadProgress(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"palette", "dusk"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for non-numeric progress")
	}
}

// TestConfigFlag 测试从外部文件加载配置
func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.yaml")
	yamlContent := `
modules:
  - type: celestial
    enabled: true
  - type: rain
    enabled: false
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runCommand(t, "modules", "--config", path)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, " rain ") && !strings.HasSuffix(line, "false") {
			t.Errorf("rain should be disabled: %q", line)
		}
		if strings.Contains(line, " celestial ") && !strings.HasSuffix(line, "true") {
			t.Errorf("celestial should be enabled: %q", line)
		}
	}
}

// TestApplyOverrides 测试只覆盖显式设置的选项
func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr bool
		check   func(t *testing.T, sky *config.SkyConfig)
	}{
		{
			name: "nothing set keeps config",
			check: func(t *testing.T, sky *config.SkyConfig) {
				if sky.Canvas.Width != 1280 || sky.Cycle.TimeMultiplier != game.DefaultTimeMultiplier {
					t.Errorf("config changed: %+v", sky)
				}
			},
		},
		{
			name: "window and cycle",
			set:  map[string]any{"width": 800, "height": 600, "speed": 4.0, "progress": 0.75},
			check: func(t *testing.T, sky *config.SkyConfig) {
				if sky.Canvas.Width != 800 || sky.Canvas.Height != 600 {
					t.Errorf("canvas: got %dx%d", sky.Canvas.Width, sky.Canvas.Height)
				}
				if sky.Cycle.TimeMultiplier != 4 || sky.Cycle.InitialProgress != 0.75 {
					t.Errorf("cycle: got %+v", sky.Cycle)
				}
			},
		},
		{
			name: "zero speed and progress",
			set:  map[string]any{"speed": 0.0, "progress": 0.0},
			check: func(t *testing.T, sky *config.SkyConfig) {
				if sky.Cycle.TimeMultiplier != 0 || sky.Cycle.InitialProgress != 0 {
					t.Errorf("cycle: got %+v, want frozen at 0", sky.Cycle)
				}
				m := game.NewModuleManager(sky.ManagerOptions(nil))
				if m.Cycle().TimeMultiplier != 0 || m.Cycle().DayProgress != 0 {
					t.Errorf("manager cycle: multiplier %v progress %v", m.Cycle().TimeMultiplier, m.Cycle().DayProgress)
				}
			},
		},
		{
			name: "speed is clamped",
			set:  map[string]any{"speed": 50.0},
			check: func(t *testing.T, sky *config.SkyConfig) {
				if sky.Cycle.TimeMultiplier != game.MaxTimeMultiplier {
					t.Errorf("speed: got %v, want %v", sky.Cycle.TimeMultiplier, game.MaxTimeMultiplier)
				}
			},
		},
		{
			name: "module selection",
			set:  map[string]any{"modules": []string{"celestial", "snow"}},
			check: func(t *testing.T, sky *config.SkyConfig) {
				got := sky.EnabledModules()
				if len(got) != 2 || got[0] != types.ModuleCelestial || got[1] != types.ModuleSnow {
					t.Errorf("enabled: got %v", got)
				}
			},
		},
		{
			name: "performance",
			set:  map[string]any{"performance": "Medium"},
			check: func(t *testing.T, sky *config.SkyConfig) {
				if sky.PerformanceMode() != types.PerformanceMedium {
					t.Errorf("mode: got %v", sky.PerformanceMode())
				}
			},
		},
		{name: "bad performance", set: map[string]any{"performance": "ultra"}, wantErr: true},
		{name: "bad module", set: map[string]any{"modules": []string{"volcano"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			sky := config.DefaultSkyConfig()
			err := applyOverrides(sky, v)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("applyOverrides: %v", err)
			}
			tt.check(t, sky)
		})
	}
}
