package utils

import (
	"sync"
	"time"
)

// TimeProvider 单调毫秒时钟
type TimeProvider interface {
	// NowMs 返回自时钟创建以来经过的毫秒数
	NowMs() float64
}

// MonotonicTimeProvider 基于 time.Now 单调读数的真实时钟
type MonotonicTimeProvider struct {
	start time.Time
}

// NewMonotonicTimeProvider 创建从当前时刻开始计时的时钟
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{start: time.Now()}
}

// NowMs 返回经过的毫秒数
func (p *MonotonicTimeProvider) NowMs() float64 {
	return float64(time.Since(p.start)) / float64(time.Millisecond)
}

// MockTimeProvider 可手动推进的时钟，用于测试
type MockTimeProvider struct {
	mu  sync.RWMutex
	now float64
}

// NewMockTimeProvider 创建起始时间为 startMs 的测试时钟
func NewMockTimeProvider(startMs float64) *MockTimeProvider {
	return &MockTimeProvider{now: startMs}
}

// NowMs 返回当前模拟时间
func (m *MockTimeProvider) NowMs() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance 推进模拟时间
func (m *MockTimeProvider) Advance(ms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += ms
}

// Set 设置模拟时间
func (m *MockTimeProvider) Set(ms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = ms
}
