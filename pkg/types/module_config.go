package types

// ModuleConfig 模块初始化配置
//
// 初始化时以及每次尺寸/响应式变化时传入，模块以此为坐标空间的唯一依据。
type ModuleConfig struct {
	CanvasWidth     int
	CanvasHeight    int
	PerformanceMode PerformanceMode
	CustomSettings  map[string]any
}

// Float 读取自定义浮点配置，缺失或类型不符时返回默认值
func (c ModuleConfig) Float(key string, def float64) float64 {
	v, ok := c.CustomSettings[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return def
}

// Int 读取自定义整数配置
func (c ModuleConfig) Int(key string, def int) int {
	f := c.Float(key, float64(def))
	return int(f)
}

// String 读取自定义字符串配置
func (c ModuleConfig) String(key, def string) string {
	if v, ok := c.CustomSettings[key].(string); ok && v != "" {
		return v
	}
	return def
}

// ResponsiveConfig 断点相关的可调参数
type ResponsiveConfig struct {
	Breakpoint       string  `yaml:"-"`
	IsMobile         bool    `yaml:"-"`
	SunVisibleStart  float64 `yaml:"sunVisibleStart"`
	SunVisibleEnd    float64 `yaml:"sunVisibleEnd"`
	MoonVisibleStart float64 `yaml:"moonVisibleStart"`
	MoonVisibleEnd   float64 `yaml:"moonVisibleEnd"`
	SunBaseSize      float64 `yaml:"sunBaseSize"`
	MoonBaseSize     float64 `yaml:"moonBaseSize"`
}

// WindSample 风场在某点的采样结果
type WindSample struct {
	X        float64
	Y        float64
	Strength float64
}

// WindField 可查询的风场
//
// 其他模块只能通过这个接口读取风力，不能直接访问风场模块的内部状态。
type WindField interface {
	WindInfluence(x, y float64) WindSample
}
