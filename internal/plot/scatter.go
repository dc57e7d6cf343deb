package plot

import (
	"fmt"
	"image/color"
	"io"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

// Scatter describes a flat two-property view of the experiments.
type Scatter struct {
	X, Y   string
	Color  string
	Points []domain.DataPoint // X and Y hold the raw values of the two properties
	Title  string
}

// RenderScatter draws a 2D scatter plot with a tooltip per experiment.
func RenderScatter(w io.Writer, s Scatter, width, height int) error {
	if len(s.Points) == 0 {
		return fmt.Errorf("no points to plot")
	}

	colors := NewColorScale(s.Points)
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	fills := make([]color.Color, len(s.Points))
	labels := make([]string, len(s.Points))
	for i, p := range s.Points {
		xs[i], ys[i] = p.X, p.Y
		fills[i] = colors.Color(p.Value)
		labels[i] = util.DisplayID(p.ID)
	}

	tab := new(table.Builder).
		Add(s.X, xs).
		Add(s.Y, ys).
		Add("fill", fills).
		Add("id", labels).
		Done()

	p := gg.NewPlot(tab)
	p.Add(gg.LayerPoints{X: s.X, Y: s.Y, Color: "fill"})
	p.Add(gg.LayerTooltips{X: s.X, Y: s.Y, Label: "id"})
	title := s.Title
	if title == "" {
		title = fmt.Sprintf("%s vs %s, colored by %s", s.Y, s.X, s.Color)
	}
	p.Add(gg.Title(title))
	return p.WriteSVG(w, width, height)
}
