package utils

import "testing"

func TestMockTimeProvider(t *testing.T) {
	m := NewMockTimeProvider(100)
	if m.NowMs() != 100 {
		t.Fatalf("起始时间 = %v, 期望 100", m.NowMs())
	}
	m.Advance(16.5)
	if m.NowMs() != 116.5 {
		t.Errorf("推进后 = %v, 期望 116.5", m.NowMs())
	}
	m.Set(5)
	if m.NowMs() != 5 {
		t.Errorf("Set 后 = %v, 期望 5", m.NowMs())
	}
}

func TestMonotonicTimeProviderNeverGoesBack(t *testing.T) {
	p := NewMonotonicTimeProvider()
	prev := p.NowMs()
	for i := 0; i < 1000; i++ {
		now := p.NowMs()
		if now < prev {
			t.Fatalf("单调时钟倒退: %v < %v", now, prev)
		}
		prev = now
	}
}
