package utils

import "math"

// 数值辅助函数
//
// 动画中所有"进度"都是 [0, 1] 区间内的值，这里集中放置与之相关的
// 缓动、插值和区间映射函数，避免各模块各写一份。

// EaseOutSine 正弦缓出
// 特点：开始快，结束慢，天空颜色过渡使用它
// 公式：f(t) = sin(t * π/2)
func EaseOutSine(t float64) float64 {
	return math.Sin(Clamp01(t) * math.Pi / 2)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// MapRange 将 v 从 [inMin, inMax] 线性映射到 [outMin, outMax]
// 线性映射，不做截断，超出输入区间时按比例外推
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Wrap01 将任意实数折回 [0, 1)
//
// 负数同样得到非负余数：Wrap01(-0.25) == 0.75。
// NaN 和 ±Inf 返回 0，保证进度值永远可用。
func Wrap01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := math.Mod(v, 1)
	if r < 0 {
		r += 1
	}
	// -1e-18 + 1 在浮点下会得到 1
	if r >= 1 {
		r = 0
	}
	return r
}
