package render

import "github.com/hajimehoshi/ebiten/v2"

// transformStack 可嵌套保存/恢复的仿射变换栈
//
// 新的 Translate/Rotate 作用在局部坐标上：先应用新变换，再应用已有变换。
type transformStack struct {
	current ebiten.GeoM
	saved   []ebiten.GeoM
}

func (t *transformStack) push() {
	t.saved = append(t.saved, t.current)
}

func (t *transformStack) pop() {
	if len(t.saved) == 0 {
		return
	}
	t.current = t.saved[len(t.saved)-1]
	t.saved = t.saved[:len(t.saved)-1]
}

func (t *transformStack) translate(dx, dy float64) {
	var m ebiten.GeoM
	m.Translate(dx, dy)
	m.Concat(t.current)
	t.current = m
}

func (t *transformStack) rotate(theta float64) {
	var m ebiten.GeoM
	m.Rotate(theta)
	m.Concat(t.current)
	t.current = m
}

func (t *transformStack) apply(x, y float64) (float64, float64) {
	return t.current.Apply(x, y)
}

func (t *transformStack) reset() {
	t.current.Reset()
	t.saved = t.saved[:0]
}

func (t *transformStack) depth() int {
	return len(t.saved)
}
