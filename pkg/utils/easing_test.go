package utils

import (
	"math"
	"testing"
)

// TestEaseOutSine 测试正弦缓出
func TestEaseOutSine(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, math.Sqrt2 / 2},
		{"越界下限", -1, 0},
		{"越界上限", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutSine(tt.input)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("EaseOutSine(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestWrap01 测试进度折回
func TestWrap01(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"区间内", 0.3, 0.3},
		{"恰好为1", 1.0, 0.0},
		{"大于1", 2.75, 0.75},
		{"负数", -0.25, 0.75},
		{"大负数", -3.5, 0.5},
		{"NaN", math.NaN(), 0},
		{"正无穷", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap01(tt.input)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Wrap01(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
			if result < 0 || result >= 1 {
				t.Errorf("Wrap01(%v) = %v 超出 [0,1)", tt.input, result)
			}
		})
	}

	// 极小负数加 1 后可能舍入为 1
	if r := Wrap01(-1e-18); r < 0 || r >= 1 {
		t.Errorf("Wrap01(-1e-18) = %v 超出 [0,1)", r)
	}
}

// TestMapRange 测试区间映射
func TestMapRange(t *testing.T) {
	if got := MapRange(0.3, 0.3, 1.0, 15, 25); got != 15 {
		t.Errorf("下限映射错误: %v", got)
	}
	if got := MapRange(1.0, 0.3, 1.0, 15, 25); math.Abs(got-25) > 1e-9 {
		t.Errorf("上限映射错误: %v", got)
	}
	if got := MapRange(5, 1, 1, 7, 9); got != 7 {
		t.Errorf("退化区间应返回 outMin，得到 %v", got)
	}
}

// TestLerpAndClamp 测试插值和截断
func TestLerpAndClamp(t *testing.T) {
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Lerp = %v, 期望 12.5", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp 上限 = %v", got)
	}
	if got := Clamp01(-0.1); got != 0 {
		t.Errorf("Clamp01 下限 = %v", got)
	}
}
