// Package render 定义天空动画使用的即时模式绘图接口
//
// 模块只依赖 Surface 接口，不直接接触 ebiten，
// 因此可以在测试中换成 Recorder 检查绘制调用。
package render

import "image/color"

// Point 二维坐标
type Point struct {
	X, Y float64
}

// Surface 即时模式 2D 绘图表面
//
// 所有坐标都会经过当前变换栈（Push/Pop/Translate/Rotate）。
// 颜色使用非预乘的 color.NRGBA，透明度由 A 通道表达。
type Surface interface {
	// Width 画布宽度（像素）
	Width() int
	// Height 画布高度（像素）
	Height() int

	// Clear 用纯色填满整个画布，忽略变换
	Clear(c color.Color)

	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	StrokeCircle(cx, cy, r, width float64, c color.NRGBA)
	FillEllipse(cx, cy, rx, ry float64, c color.NRGBA)
	Line(x0, y0, x1, y1, width float64, c color.NRGBA)
	// FillPolygon 填充闭合多边形，少于三个点时不绘制
	FillPolygon(pts []Point, c color.NRGBA)
	// StrokePolyline 描边折线（不闭合）
	StrokePolyline(pts []Point, width float64, c color.NRGBA)

	// Push 保存当前变换
	Push()
	// Pop 恢复最近一次 Push 的变换，栈空时无操作
	Pop()
	Translate(dx, dy float64)
	Rotate(theta float64)
}

// NoiseSource 一维平滑噪声
type NoiseSource interface {
	// Noise1D 返回 [0, 1] 区间内的平滑噪声值
	Noise1D(x float64) float64
}
