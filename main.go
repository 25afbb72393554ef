// skycanvas 动画天空场景
//
// 用法：
//
//	skycanvas                       # 使用内置配置打开窗口
//	skycanvas --config sky.yaml -w  # 使用外部配置并在修改后热加载
//	skycanvas palette 0 0.25 0.5    # 打印指定进度的天空色标
//	skycanvas modules               # 列出模块与渲染顺序
package main

import (
	"github.com/decker502/skycanvas/internal/cli"
	"github.com/decker502/skycanvas/pkg/embedded"
)

func main() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)
	cli.Execute()
}
