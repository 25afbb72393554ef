package modules

import (
	"github.com/decker502/skycanvas/pkg/game"
	"github.com/decker502/skycanvas/pkg/types"
)

// Factories 返回全部内置模块的工厂
func Factories() map[types.ModuleType]game.ModuleFactory {
	return map[types.ModuleType]game.ModuleFactory{
		types.ModuleCelestial: func() game.Module { return NewCelestialModule() },
		types.ModuleMountains: func() game.Module { return NewMountainsModule() },
		types.ModuleSnow:      func() game.Module { return NewSnowModule() },
		types.ModuleRain:      func() game.Module { return NewRainModule() },
		types.ModuleLightning: func() game.Module { return NewLightningModule() },
		types.ModuleLeaves:    func() game.Module { return NewLeavesModule() },
		types.ModuleWind:      func() game.Module { return NewWindModule() },
	}
}

// RegisterAll 把全部内置模块注册到编排器
func RegisterAll(m *game.ModuleManager) {
	for t, f := range Factories() {
		m.RegisterFactory(t, f)
	}
}

// Seeder 可以重置随机数源的模块
type Seeder interface {
	Reseed(seed int64)
}

// SeededFactories 返回使用固定种子的工厂，每个模块类型使用不同的派生种子
func SeededFactories(seed int64) map[types.ModuleType]game.ModuleFactory {
	out := make(map[types.ModuleType]game.ModuleFactory)
	for i, t := range types.AllModuleTypes {
		factory := Factories()[t]
		derived := seed + int64(i)*7919
		out[t] = func() game.Module {
			mod := factory()
			if s, ok := mod.(Seeder); ok {
				s.Reseed(derived)
			}
			return mod
		}
	}
	return out
}
