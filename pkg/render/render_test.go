package render

import (
	"image/color"
	"math"
	"testing"
)

func TestRecorderAppliesTransform(t *testing.T) {
	r := NewRecorder(800, 600)
	c := color.NRGBA{R: 255, A: 255}

	r.Push()
	r.Translate(10, 20)
	r.FillCircle(5, 5, 3, c)
	r.Pop()
	r.FillCircle(5, 5, 3, c)

	if len(r.Ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(r.Ops))
	}
	if p := r.Ops[0].Points[0]; p.X != 15 || p.Y != 25 {
		t.Errorf("translated circle at (%v, %v), want (15, 25)", p.X, p.Y)
	}
	if p := r.Ops[1].Points[0]; p.X != 5 || p.Y != 5 {
		t.Errorf("restored circle at (%v, %v), want (5, 5)", p.X, p.Y)
	}
	if r.Depth() != 0 {
		t.Errorf("depth = %d, want 0", r.Depth())
	}
}

func TestRecorderCountAndReset(t *testing.T) {
	r := NewRecorder(100, 100)
	c := color.NRGBA{A: 255}
	r.Line(0, 0, 1, 1, 1, c)
	r.Line(0, 0, 2, 2, 1, c)
	r.FillRect(0, 0, 10, 10, c)
	r.Clear(color.Black)

	if got := r.Count("Line"); got != 2 {
		t.Errorf("Count(Line) = %d, want 2", got)
	}
	r.Push()
	r.Reset()
	if len(r.Ops) != 0 || len(r.Cleared) != 0 || r.Depth() != 0 {
		t.Errorf("Reset left state behind: ops=%d cleared=%d depth=%d", len(r.Ops), len(r.Cleared), r.Depth())
	}
}

func TestPerlinNoiseRangeAndDeterminism(t *testing.T) {
	a := NewPerlinNoise(42)
	b := NewPerlinNoise(42)
	for i := 0; i < 500; i++ {
		x := float64(i) * 0.037
		va, vb := a.Noise1D(x), b.Noise1D(x)
		if va < 0 || va > 1 {
			t.Fatalf("Noise1D(%v) = %v out of [0,1]", x, va)
		}
		if va != vb {
			t.Fatalf("same seed diverged at x=%v: %v vs %v", x, va, vb)
		}
	}
}

func TestPerlinNoiseIsSmooth(t *testing.T) {
	n := NewPerlinNoise(7)
	prev := n.Noise1D(0)
	for i := 1; i < 200; i++ {
		v := n.Noise1D(float64(i) * 0.001)
		if math.Abs(v-prev) > 0.05 {
			t.Fatalf("jump of %v between adjacent samples at step %d", math.Abs(v-prev), i)
		}
		prev = v
	}
}
