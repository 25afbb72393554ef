package render

import "image/color"

// Op 记录下来的一次绘制调用
type Op struct {
	Name   string
	Points []Point // 已经过变换栈的坐标
	Radius float64
	Width  float64
	Color  color.NRGBA
}

// Recorder 记录绘制调用的 Surface，用于测试
type Recorder struct {
	W, H      int
	Ops       []Op
	Cleared   []color.Color
	transform transformStack
}

// NewRecorder 创建指定尺寸的记录表面
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

// Reset 清空记录与变换栈
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.Cleared = r.Cleared[:0]
	r.transform.reset()
}

// Count 返回指定名称的调用次数
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Depth 当前未弹出的 Push 数量
func (r *Recorder) Depth() int { return r.transform.depth() }

func (r *Recorder) Width() int  { return r.W }
func (r *Recorder) Height() int { return r.H }

func (r *Recorder) Clear(c color.Color) {
	r.Cleared = append(r.Cleared, c)
}

func (r *Recorder) record(name string, c color.NRGBA, radius, width float64, pts ...Point) {
	out := make([]Point, len(pts))
	for i, p := range pts {
		x, y := r.transform.apply(p.X, p.Y)
		out[i] = Point{X: x, Y: y}
	}
	r.Ops = append(r.Ops, Op{Name: name, Points: out, Radius: radius, Width: width, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.record("FillRect", c, 0, 0, Point{x, y}, Point{x + w, y + h})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c color.NRGBA) {
	r.record("FillCircle", c, radius, 0, Point{cx, cy})
}

func (r *Recorder) StrokeCircle(cx, cy, radius, width float64, c color.NRGBA) {
	r.record("StrokeCircle", c, radius, width, Point{cx, cy})
}

func (r *Recorder) FillEllipse(cx, cy, rx, ry float64, c color.NRGBA) {
	r.record("FillEllipse", c, rx, ry, Point{cx, cy})
}

func (r *Recorder) Line(x0, y0, x1, y1, width float64, c color.NRGBA) {
	r.record("Line", c, 0, width, Point{x0, y0}, Point{x1, y1})
}

func (r *Recorder) FillPolygon(pts []Point, c color.NRGBA) {
	r.record("FillPolygon", c, 0, 0, pts...)
}

func (r *Recorder) StrokePolyline(pts []Point, width float64, c color.NRGBA) {
	r.record("StrokePolyline", c, 0, width, pts...)
}

func (r *Recorder) Push()                    { r.transform.push() }
func (r *Recorder) Pop()                     { r.transform.pop() }
func (r *Recorder) Translate(dx, dy float64) { r.transform.translate(dx, dy) }
func (r *Recorder) Rotate(theta float64)     { r.transform.rotate(theta) }
