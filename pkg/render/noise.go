package render

import (
	"github.com/aquilax/go-perlin"

	"github.com/decker502/skycanvas/pkg/utils"
)

// Perlin 参数：alpha 控制衰减，beta 控制频率倍增，n 为叠加层数
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// PerlinNoise 基于 go-perlin 的 NoiseSource
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise 用给定种子创建噪声源，同一种子输出完全一致
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Noise1D 返回 [0, 1] 区间的噪声
func (n *PerlinNoise) Noise1D(x float64) float64 {
	return utils.Clamp01((n.p.Noise1D(x) + 1) / 2)
}
