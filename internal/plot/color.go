package plot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

var (
	// LegendStart and LegendEnd are the endpoints of the legend gradient.
	LegendStart = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	LegendEnd   = color.RGBA{R: 0x1e, G: 0x40, B: 0xaf, A: 0xff}
)

// ColorScale colors points from white (range minimum) to blue (maximum).
type ColorScale struct {
	Range domain.Range
}

// NewColorScale spans the color values of the given points, which are
// normally the visible ones after filtering.
func NewColorScale(points []domain.DataPoint) ColorScale {
	if len(points) == 0 {
		return ColorScale{}
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	lo, hi := stats.Bounds(values)
	return ColorScale{Range: domain.Range{Min: lo, Max: hi}}
}

// Fraction returns where v sits in the range, clamped to [0, 1].
// A degenerate range puts every value at 0.
func (c ColorScale) Fraction(v float64) float64 {
	span := c.Range.Span()
	if span == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (v-c.Range.Min)/span))
}

// Color returns the point color for v: red and green fade out, blue stays full.
func (c ColorScale) Color(v float64) color.RGBA {
	ch := uint8(math.Round(255 * (1 - c.Fraction(v))))
	return color.RGBA{R: ch, G: ch, B: 255, A: 255}
}

// Hex formats a color as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// LegendTick is one labelled mark on the color legend.
type LegendTick struct {
	Value   float64
	Label   string
	Percent float64
}

// Legend returns n ticks spread evenly over the scale, labelled at one decimal.
func (c ColorScale) Legend(n int) []LegendTick {
	values := LegendTicks(c.Range, n)
	ticks := make([]LegendTick, len(values))
	for i, v := range values {
		pct := 0.0
		if len(values) > 1 {
			pct = 100 * float64(i) / float64(len(values)-1)
		}
		ticks[i] = LegendTick{Value: v, Label: fmt.Sprintf("%.1f", v), Percent: pct}
	}
	return ticks
}
