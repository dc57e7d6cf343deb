package plot

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

// Scene is everything needed to draw one view of the experiment cloud.
type Scene struct {
	Axes     engine.Axes
	Stats    domain.PropertyStats
	Points   []domain.DataPoint // raw values, already filtered
	Camera   Camera
	Selected string
	Width    int
	Height   int
}

const (
	pointRadius    = 6
	selectedRadius = 10
	legendWidth    = 16
	legendMargin   = 90
	axisTicks      = 5
	legendTicks    = 5
)

// Render3D writes the scene as an SVG document. Unknown axis properties are an error.
func Render3D(w io.Writer, sc Scene) error {
	if sc.Width <= 0 || sc.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", sc.Width, sc.Height)
	}
	norm, err := NewNormalizer(sc.Axes, sc.Stats)
	if err != nil {
		return err
	}
	colors := NewColorScale(sc.Points)
	cam := sc.Camera.Clamp()

	plotW := sc.Width - legendMargin
	cx, cy := float64(plotW)/2, float64(sc.Height)/2
	unitPx := math.Min(float64(plotW), float64(sc.Height)) * 0.32
	toScreen := func(x, y, z float64) (int, int) {
		sx, sy, _ := cam.Project(x, y, z)
		return int(math.Round(cx + sx*unitPx)), int(math.Round(cy - sy*unitPx))
	}

	canvas := svg.New(w)
	canvas.Start(sc.Width, sc.Height)
	canvas.Title(fmt.Sprintf("%s, %s, %s colored by %s", sc.Axes.X, sc.Axes.Y, sc.Axes.Z, sc.Axes.Color))
	canvas.Rect(0, 0, sc.Width, sc.Height, "fill:#f8fafc")

	drawAxes(canvas, sc, toScreen)

	canvas.Group(`class="points"`)
	for _, p := range cam.ProjectAll(norm.Points(sc.Points)) {
		x, y := toScreen(p.Point.X, p.Point.Y, p.Point.Z)
		fill := Hex(colors.Color(p.Point.Value))
		r, style := pointRadius, "fill:"+fill+";stroke:#64748b;stroke-width:0.5"
		if p.Point.ID == sc.Selected {
			r, style = selectedRadius, "fill:"+fill+";stroke:#f59e0b;stroke-width:3"
		}
		canvas.Group(fmt.Sprintf(`data-id="%s"`, html.EscapeString(p.Point.ID)))
		canvas.Title(fmt.Sprintf("%s: %s", util.DisplayID(p.Point.ID), util.FormatValue(sc.Axes.Color, p.Point.Value)))
		canvas.Circle(x, y, r, style)
		canvas.Gend()
	}
	canvas.Gend()

	drawLegend(canvas, sc, colors)
	canvas.End()
	return nil
}

type screenFunc func(x, y, z float64) (int, int)

func drawAxes(canvas *svg.SVG, sc Scene, toScreen screenFunc) {
	type axis struct {
		name  string
		dir   [3]float64
		label [3]float64
	}
	axes := []axis{
		{sc.Axes.X, [3]float64{1, 0, 0}, [3]float64{1.1, -1, 0}},
		{sc.Axes.Y, [3]float64{0, 1, 0}, [3]float64{0, 1.1, 0}},
		{sc.Axes.Z, [3]float64{0, 0, 1}, [3]float64{0, -1, 1.1}},
	}

	canvas.Group(`class="axes"`, "stroke:#94a3b8;stroke-width:1")
	for _, a := range axes {
		x1, y1 := toScreen(-a.dir[0], -a.dir[1], -a.dir[2])
		x2, y2 := toScreen(a.dir[0], a.dir[1], a.dir[2])
		canvas.Line(x1, y1, x2, y2)
	}
	canvas.Gend()

	canvas.Group(`class="axis-labels"`, "font-family:sans-serif;font-size:12px;fill:#0f172a")
	for _, a := range axes {
		lx, ly := toScreen(a.label[0], a.label[1], a.label[2])
		canvas.Text(lx, ly, a.name, "text-anchor:middle;font-weight:bold")

		r := sc.Stats[a.name]
		s := linear(r)
		for _, t := range AxisTicks(r, axisTicks) {
			pos := symmetric(s, t)
			tx, ty := toScreen(a.dir[0]*pos, a.dir[1]*pos, a.dir[2]*pos)
			canvas.Text(tx, ty+14, util.FormatValue(a.name, t), "text-anchor:middle;font-size:9px;fill:#475569")
		}
	}
	canvas.Gend()
}

func drawLegend(canvas *svg.SVG, sc Scene, colors ColorScale) {
	x := sc.Width - legendMargin + 20
	top, height := 40, sc.Height-80

	canvas.Def()
	canvas.LinearGradient("legend", 0, 100, 0, 0, []svg.Offcolor{
		{Offset: 0, Color: Hex(LegendStart), Opacity: 1},
		{Offset: 100, Color: Hex(LegendEnd), Opacity: 1},
	})
	canvas.DefEnd()

	canvas.Group(`class="legend"`, "font-family:sans-serif;font-size:10px;fill:#0f172a")
	canvas.Text(x, top-12, sc.Axes.Color, "font-weight:bold")
	canvas.Rect(x, top, legendWidth, height, "fill:url(#legend);stroke:#94a3b8")
	for _, t := range colors.Legend(legendTicks) {
		ty := top + height - int(math.Round(float64(height)*t.Percent/100))
		canvas.Text(x+legendWidth+4, ty+3, t.Label)
	}
	canvas.Gend()
}
