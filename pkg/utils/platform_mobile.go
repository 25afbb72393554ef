//go:build mobile

package utils

// IsMobile ebitenmobile 构建时始终按移动端处理
// 响应式配置会直接选用 mobile 断点，与窗口宽度无关
func IsMobile() bool {
	return true
}
