// Package cli 实现 skycanvas 命令行
//
// 参数来源优先级：命令行标志 > SKYCANVAS_* 环境变量 > 场景配置文件 > 内置默认值。
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decker502/skycanvas/pkg/app"
	"github.com/decker502/skycanvas/pkg/config"
	"github.com/decker502/skycanvas/pkg/types"
)

// EnvPrefix 环境变量前缀，例如 SKYCANVAS_PERFORMANCE=low
const EnvPrefix = "SKYCANVAS"

// ViewerOptions 查看器的命令行选项
type ViewerOptions struct {
	Config      string   `mapstructure:"config"`
	Watch       bool     `mapstructure:"watch"`
	Verbose     bool     `mapstructure:"verbose"`
	Width       int      `mapstructure:"width"`
	Height      int      `mapstructure:"height"`
	Performance string   `mapstructure:"performance"`
	Speed       float64  `mapstructure:"speed"`
	Progress    float64  `mapstructure:"progress"`
	Modules     []string `mapstructure:"modules"`
	Seed        int64    `mapstructure:"seed"`
	Fullscreen  bool     `mapstructure:"fullscreen"`
	NoPersist   bool     `mapstructure:"no-persist"`
}

var optionKeys = []string{
	"config", "watch", "verbose", "width", "height", "performance",
	"speed", "progress", "modules", "seed", "fullscreen", "no-persist",
}

// Execute 运行命令行，出错时以状态码 1 退出
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand 构造完整的命令树
// 每次调用使用独立的 viper 实例，便于测试
func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "skycanvas",
		Short: "Animated sky scene with a day/night cycle",
		Long: "skycanvas renders a layered sky: gradient, sun and moon, mountains, " +
			"snow, rain, lightning, leaves and wind, driven by a continuous day/night clock.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(v)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "sky config file (default: built-in data/sky_config.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")

	f := root.Flags()
	f.Bool("watch", false, "reload --config when the file changes")
	f.Int("width", 0, "initial window width")
	f.Int("height", 0, "initial window height")
	f.StringP("performance", "p", "", "quality: high, medium or low")
	f.Float64("speed", 0, "time multiplier (0-10)")
	f.Float64("progress", -1, "initial day progress (0-1)")
	f.StringSlice("modules", nil, "modules to enable, e.g. celestial,mountains,snow")
	f.Int64("seed", 0, "fixed random seed for reproducible animation")
	f.Bool("fullscreen", false, "start fullscreen")
	f.Bool("no-persist", false, "do not load or save viewer preferences")

	root.AddCommand(newPaletteCommand(v), newModulesCommand(v))
	return root
}

// bindFlags 把当前命令的标志绑定到 viper 并启用环境变量
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// 子命令没有定义全部标志，显式绑定后 Unmarshal 才能看到环境变量
	for _, key := range optionKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}
	return nil
}

// loadSky 加载场景配置并应用命令行覆盖
func loadSky(v *viper.Viper) (*config.SkyConfig, error) {
	sky, err := config.LoadSkyConfig(v.GetString("config"))
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(sky, v); err != nil {
		return nil, err
	}
	return sky, nil
}

// applyOverrides 只覆盖显式设置过的选项
func applyOverrides(sky *config.SkyConfig, v *viper.Viper) error {
	var opts ViewerOptions
	if err := v.Unmarshal(&opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	if v.IsSet("width") && opts.Width > 0 {
		sky.Canvas.Width = opts.Width
	}
	if v.IsSet("height") && opts.Height > 0 {
		sky.Canvas.Height = opts.Height
	}
	if v.IsSet("performance") && opts.Performance != "" {
		mode, err := types.ParsePerformanceMode(opts.Performance)
		if err != nil {
			return err
		}
		sky.Performance.Mode = string(mode)
	}
	if v.IsSet("speed") {
		sky.Cycle.TimeMultiplier = opts.Speed
	}
	if v.IsSet("progress") && opts.Progress >= 0 {
		sky.Cycle.InitialProgress = opts.Progress
	}
	if v.IsSet("modules") && len(opts.Modules) > 0 {
		enabled := make(map[types.ModuleType]bool)
		for _, name := range opts.Modules {
			t, err := types.ParseModuleType(name)
			if err != nil {
				return err
			}
			enabled[t] = true
		}
		for i := range sky.Modules {
			t, _ := types.ParseModuleType(sky.Modules[i].Type)
			sky.Modules[i].Enabled = enabled[t]
			delete(enabled, t)
		}
		// 配置文件中没有列出的模块追加到末尾
		for _, t := range types.AllModuleTypes {
			if enabled[t] {
				sky.Modules = append(sky.Modules, config.ModuleEntry{Type: string(t), Enabled: true})
			}
		}
	}

	sky.Normalize()
	return nil
}

func runViewer(v *viper.Viper) error {
	sky, err := loadSky(v)
	if err != nil {
		return err
	}

	a, err := app.NewApp(app.Config{
		Verbose:    v.GetBool("verbose"),
		Sky:        sky,
		ConfigPath: v.GetString("config"),
		Watch:      v.GetBool("watch"),
		Seed:       v.GetInt64("seed"),
		NoPersist:  v.GetBool("no-persist"),
	})
	if err != nil {
		return err
	}
	return a.Run(app.RunOptions{
		Title:      "Sky Canvas",
		Fullscreen: v.GetBool("fullscreen"),
	})
}
