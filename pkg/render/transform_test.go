package render

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestTransformStack_TranslateThenRotate 先平移再旋转时，旋转作用于局部坐标
func TestTransformStack_TranslateThenRotate(t *testing.T) {
	var ts transformStack
	ts.translate(100, 50)
	ts.rotate(math.Pi / 2)

	// 局部 (10, 0) 旋转 90° 后为 (0, 10)，再平移得到 (100, 60)
	x, y := ts.apply(10, 0)
	if !almostEqual(x, 100) || !almostEqual(y, 60) {
		t.Errorf("apply(10,0) = (%v,%v), 期望 (100,60)", x, y)
	}
}

// TestTransformStack_PushPop 测试变换保存与恢复
func TestTransformStack_PushPop(t *testing.T) {
	var ts transformStack
	ts.translate(5, 5)
	ts.push()
	ts.translate(10, 0)
	x, _ := ts.apply(0, 0)
	if !almostEqual(x, 15) {
		t.Fatalf("嵌套平移 x = %v, 期望 15", x)
	}
	ts.pop()
	x, y := ts.apply(0, 0)
	if !almostEqual(x, 5) || !almostEqual(y, 5) {
		t.Errorf("Pop 后 = (%v,%v), 期望 (5,5)", x, y)
	}

	// 空栈 Pop 不应 panic
	ts.pop()
	ts.pop()
	if ts.depth() != 0 {
		t.Errorf("depth = %d, 期望 0", ts.depth())
	}
}
