package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decker502/skycanvas/pkg/game"
	"github.com/decker502/skycanvas/pkg/utils"
)

func newPaletteCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette [progress...]",
		Short: "Print the interpolated sky colors at given day progress values",
		Long: "palette prints the four gradient stops (top, middle, bottom, horizon) " +
			"that the sky uses at each progress value. Without arguments it samples the " +
			"cycle evenly using --steps.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sky, err := loadSky(v)
			if err != nil {
				return err
			}

			points := make([]float64, 0, len(args))
			for _, a := range args {
				p, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid progress %q: %w", a, err)
				}
				points = append(points, utils.Clamp01(p))
			}
			if len(points) == 0 {
				steps, _ := cmd.Flags().GetInt("steps")
				if steps < 1 {
					steps = 1
				}
				for i := 0; i < steps; i++ {
					points = append(points, float64(i)/float64(steps))
				}
			}

			model := game.NewSkyColorModel(sky.Palettes.Day.Stops(), sky.Palettes.Night.Stops())
			writePalette(cmd.OutOrStdout(), model, points)
			return nil
		},
	}
	cmd.Flags().Int("steps", 8, "number of evenly spaced samples when no progress is given")
	return cmd
}

// writePalette 每行一个进度：进度、混合系数和四个色标
func writePalette(w io.Writer, model *game.SkyColorModel, points []float64) {
	fmt.Fprintf(w, "%-9s %-7s %-8s %-8s %-8s %-8s\n", "progress", "blend", "top", "middle", "bottom", "horizon")
	for _, p := range points {
		hex := model.Recompute(p).Hex()
		fmt.Fprintf(w, "%-9.3f %-7.3f %-8s %-8s %-8s %-8s\n", p, model.Factor(), hex[0], hex[1], hex[2], hex[3])
	}
}
