package app

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试面板布局
const (
	debugMargin     = 8
	debugLineHeight = 16
	debugCharWidth  = 6 // ebitenutil 调试字体的字宽
)

var debugBackground = color.RGBA{A: 160}

// drawDebugOverlay 在左上角绘制半透明底板和调试文字
func drawDebugOverlay(screen *ebiten.Image, lines []string) {
	if len(lines) == 0 {
		return
	}
	longest := 0
	for _, l := range lines {
		longest = max(longest, len(l))
	}

	w := float32(longest*debugCharWidth + debugMargin*2)
	h := float32(len(lines)*debugLineHeight + debugMargin)
	vector.DrawFilledRect(screen, debugMargin/2, debugMargin/2, w, h, debugBackground, false)
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), debugMargin, debugMargin)
}
