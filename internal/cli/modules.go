package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decker502/skycanvas/pkg/config"
	"github.com/decker502/skycanvas/pkg/modules"
	"github.com/decker502/skycanvas/pkg/types"
)

func newModulesCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the visual modules in render order",
		RunE: func(cmd *cobra.Command, args []string) error {
			sky, err := loadSky(v)
			if err != nil {
				return err
			}
			writeModules(cmd.OutOrStdout(), sky)
			return nil
		},
	}
}

type moduleRow struct {
	key      int
	typ      types.ModuleType
	name     string
	priority int
	enabled  bool
	mode     string
}

// writeModules 按渲染顺序列出模块：快捷键、类型、名称、优先级、启用状态
func writeModules(w io.Writer, sky *config.SkyConfig) {
	entries := make(map[types.ModuleType]config.ModuleEntry)
	for _, e := range sky.Modules {
		if t, err := types.ParseModuleType(e.Type); err == nil {
			entries[t] = e
		}
	}

	factories := modules.Factories()
	rows := make([]moduleRow, 0, len(types.AllModuleTypes))
	for i, t := range types.AllModuleTypes {
		m := factories[t]()
		row := moduleRow{key: i + 1, typ: t, name: m.Name(), priority: m.DefaultPriority(), mode: sky.Performance.Mode}
		if e, ok := entries[t]; ok {
			row.enabled = e.Enabled
			if e.Priority != nil {
				row.priority = *e.Priority
			}
			if e.PerformanceMode != "" {
				row.mode = e.PerformanceMode
			}
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].priority < rows[j].priority })

	fmt.Fprintf(w, "%-4s %-10s %-18s %-8s %-8s %s\n", "key", "type", "name", "priority", "quality", "enabled")
	for _, r := range rows {
		fmt.Fprintf(w, "%-4d %-10s %-18s %-8d %-8s %v\n", r.key, r.typ, r.name, r.priority, r.mode, r.enabled)
	}
}
