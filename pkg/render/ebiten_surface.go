package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ellipseSegments 椭圆多边形近似的分段数
const ellipseSegments = 24

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// whiteSource DrawTriangles 使用的纯白源图，首次绘制时创建
func whiteSource() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// EbitenSurface 基于 ebiten/v2/vector 的 Surface 实现
//
// 每帧通过 SetTarget 绑定屏幕图像后复用，避免重复分配顶点缓冲。
type EbitenSurface struct {
	dst       *ebiten.Image
	transform transformStack
	antialias bool

	vertices []ebiten.Vertex
	indices  []uint16
	scratch  []Point
}

// NewEbitenSurface 创建绘图表面
//
// 参数：
//   - dst: 目标图像，可为 nil，之后用 SetTarget 绑定
//   - antialias: 是否开启抗锯齿（低画质模式下可以关闭）
func NewEbitenSurface(dst *ebiten.Image, antialias bool) *EbitenSurface {
	return &EbitenSurface{dst: dst, antialias: antialias}
}

// SetTarget 绑定新的目标图像并重置变换栈
func (s *EbitenSurface) SetTarget(dst *ebiten.Image) {
	s.dst = dst
	s.transform.reset()
}

// SetAntialias 切换抗锯齿
func (s *EbitenSurface) SetAntialias(enabled bool) {
	s.antialias = enabled
}

// Width 画布宽度
func (s *EbitenSurface) Width() int {
	if s.dst == nil {
		return 0
	}
	return s.dst.Bounds().Dx()
}

// Height 画布高度
func (s *EbitenSurface) Height() int {
	if s.dst == nil {
		return 0
	}
	return s.dst.Bounds().Dy()
}

// Clear 填充整个画布
func (s *EbitenSurface) Clear(c color.Color) {
	s.dst.Fill(c)
}

// FillRect 填充矩形
// 矩形只做平移变换；旋转场景请用 FillPolygon
func (s *EbitenSurface) FillRect(x, y, w, h float64, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	tx, ty := s.transform.apply(x, y)
	vector.DrawFilledRect(s.dst, float32(tx), float32(ty), float32(w), float32(h), c, s.antialias)
}

// FillCircle 填充圆
func (s *EbitenSurface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	if c.A == 0 || r <= 0 {
		return
	}
	tx, ty := s.transform.apply(cx, cy)
	vector.DrawFilledCircle(s.dst, float32(tx), float32(ty), float32(r), c, s.antialias)
}

// StrokeCircle 描边圆
func (s *EbitenSurface) StrokeCircle(cx, cy, r, width float64, c color.NRGBA) {
	if c.A == 0 || r <= 0 {
		return
	}
	tx, ty := s.transform.apply(cx, cy)
	vector.StrokeCircle(s.dst, float32(tx), float32(ty), float32(r), float32(width), c, s.antialias)
}

// FillEllipse 填充椭圆（在局部坐标中多边形近似，支持旋转）
func (s *EbitenSurface) FillEllipse(cx, cy, rx, ry float64, c color.NRGBA) {
	if c.A == 0 || rx <= 0 || ry <= 0 {
		return
	}
	s.scratch = s.scratch[:0]
	for i := 0; i < ellipseSegments; i++ {
		a := float64(i) / ellipseSegments * 2 * math.Pi
		s.scratch = append(s.scratch, Point{X: cx + math.Cos(a)*rx, Y: cy + math.Sin(a)*ry})
	}
	s.FillPolygon(s.scratch, c)
}

// Line 画线段
func (s *EbitenSurface) Line(x0, y0, x1, y1, width float64, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	ax, ay := s.transform.apply(x0, y0)
	bx, by := s.transform.apply(x1, y1)
	vector.StrokeLine(s.dst, float32(ax), float32(ay), float32(bx), float32(by), float32(width), c, s.antialias)
}

// FillPolygon 填充闭合多边形
func (s *EbitenSurface) FillPolygon(pts []Point, c color.NRGBA) {
	if c.A == 0 || len(pts) < 3 {
		return
	}
	var path vector.Path
	for i, p := range pts {
		x, y := s.transform.apply(p.X, p.Y)
		if i == 0 {
			path.MoveTo(float32(x), float32(y))
		} else {
			path.LineTo(float32(x), float32(y))
		}
	}
	path.Close()

	s.vertices, s.indices = path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	// 山脉轮廓是凹多边形，需要按非零环绕规则填充
	s.drawTriangles(c, ebiten.FillRuleNonZero)
}

// StrokePolyline 描边折线
func (s *EbitenSurface) StrokePolyline(pts []Point, width float64, c color.NRGBA) {
	if c.A == 0 || len(pts) < 2 {
		return
	}
	var path vector.Path
	for i, p := range pts {
		x, y := s.transform.apply(p.X, p.Y)
		if i == 0 {
			path.MoveTo(float32(x), float32(y))
		} else {
			path.LineTo(float32(x), float32(y))
		}
	}

	opts := &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	}
	s.vertices, s.indices = path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], opts)
	s.drawTriangles(c, ebiten.FillRuleFillAll)
}

func (s *EbitenSurface) drawTriangles(c color.NRGBA, rule ebiten.FillRule) {
	r := float32(c.R) / 255
	g := float32(c.G) / 255
	b := float32(c.B) / 255
	a := float32(c.A) / 255
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = r
		s.vertices[i].ColorG = g
		s.vertices[i].ColorB = b
		s.vertices[i].ColorA = a
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = s.antialias
	op.FillRule = rule
	s.dst.DrawTriangles(s.vertices, s.indices, whiteSource(), op)
}

// Push 保存变换
func (s *EbitenSurface) Push() { s.transform.push() }

// Pop 恢复变换
func (s *EbitenSurface) Pop() { s.transform.pop() }

// Translate 平移
func (s *EbitenSurface) Translate(dx, dy float64) { s.transform.translate(dx, dy) }

// Rotate 旋转（弧度）
func (s *EbitenSurface) Rotate(theta float64) { s.transform.rotate(theta) }
