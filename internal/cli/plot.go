package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	"github.com/emiliopalmerini/polymer-explorer/internal/plot"
)

func newPlotCmd(opts *rootOptions) *cobra.Command {
	var (
		axes     engine.Axes
		filters  []string
		selected string
		output   string
		camera   = plot.DefaultCamera
		width    int
		height   int
		flat     bool
	)
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the experiments as an SVG scatter plot",
		Long: `Render a 3D view (or a flat 2D scatter with --flat) of the experiments as SVG.

Examples:
  polyx plot -o cloud.svg
  polyx plot --x "Oven Temperature" --y Viscosity --flat -o flat.svg
  polyx plot -f "Oven Temperature:400:425" --yaw 90 --dist 2 -o side.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			pf, err := parseFilters(filters, eng.Dataset().Schema())
			if err != nil {
				return err
			}
			a := withDefaults(eng, axes)
			if flat {
				a.Z = a.Y
			}

			stats := eng.ComputeStats()
			points, err := eng.CreateDataPoints(a, stats)
			if err != nil {
				return err
			}
			if points, err = eng.FilterPoints(points, pf); err != nil {
				return err
			}

			var buf bytes.Buffer
			if flat {
				err = plot.RenderScatter(&buf, plot.Scatter{X: a.X, Y: a.Y, Color: a.Color, Points: points}, width, height)
			} else {
				err = plot.Render3D(&buf, plot.Scene{
					Axes:     a,
					Stats:    stats,
					Points:   points,
					Camera:   camera,
					Selected: selected,
					Width:    width,
					Height:   height,
				})
			}
			if err != nil {
				return fmt.Errorf("failed to render plot: %w", err)
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("failed to write plot: %w", err)
				}
				opts.app.Log.Info("plot written", "path", output, "points", len(points))
				return nil
			}
			_, err = buf.WriteTo(out)
			return err
		},
	}
	axesFlags(cmd, &axes)
	f := cmd.Flags()
	f.StringArrayVarP(&filters, "filter", "f", nil, "Filter as property:min:max (repeatable)")
	f.StringVar(&selected, "selected", "", "Experiment ID to highlight")
	f.StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	f.Float64Var(&camera.Yaw, "yaw", camera.Yaw, "Camera yaw in degrees")
	f.Float64Var(&camera.Pitch, "pitch", camera.Pitch, "Camera pitch in degrees")
	f.Float64Var(&camera.Distance, "dist", camera.Distance, "Camera distance (1.5 to 5)")
	f.IntVar(&width, "width", 800, "Canvas width in pixels")
	f.IntVar(&height, "height", 600, "Canvas height in pixels")
	f.BoolVar(&flat, "flat", false, "Render a 2D scatter of --x against --y")
	return cmd
}
