package plot

import (
	"math"
	"sort"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

const (
	MinDistance = 1.5
	MaxDistance = 5.0
)

// DefaultCamera looks at the origin from (1.5, 1.5, 1.5).
var DefaultCamera = Camera{
	Yaw:      45,
	Pitch:    math.Asin(1/math.Sqrt(3)) * 180 / math.Pi,
	Distance: math.Sqrt(3 * 1.5 * 1.5),
}

// Camera orbits the origin. Angles are in degrees.
type Camera struct {
	Yaw      float64
	Pitch    float64
	Distance float64
}

// Clamp keeps pitch within ±89° and distance within [MinDistance, MaxDistance].
// A zero distance becomes the default.
func (c Camera) Clamp() Camera {
	if c.Distance == 0 {
		c.Distance = DefaultCamera.Distance
	}
	c.Distance = math.Max(MinDistance, math.Min(MaxDistance, c.Distance))
	c.Pitch = math.Max(-89, math.Min(89, c.Pitch))
	c.Yaw = math.Mod(c.Yaw, 360)
	return c
}

// Zoom is the magnification relative to the default distance.
func (c Camera) Zoom() float64 {
	return DefaultCamera.Distance / c.Clamp().Distance
}

// Projected is a point placed on a 2D canvas. Depth grows away from the viewer.
type Projected struct {
	Point domain.DataPoint
	SX    float64
	SY    float64
	Depth float64
}

// Project rotates (x, y, z) by yaw then pitch and returns view-space screen
// coordinates in units of the cube half-width, plus depth.
func (c Camera) Project(x, y, z float64) (sx, sy, depth float64) {
	c = c.Clamp()
	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180

	// Rotate around the vertical axis so the camera sits on +Z.
	x1 := x*math.Cos(yaw) - z*math.Sin(yaw)
	z1 := x*math.Sin(yaw) + z*math.Cos(yaw)

	// Tilt so the camera looks down from above.
	y2 := y*math.Cos(pitch) - z1*math.Sin(pitch)
	z2 := y*math.Sin(pitch) + z1*math.Cos(pitch)

	d := c.Distance - z2
	if d < 0.1 {
		d = 0.1
	}
	f := c.Distance / d * c.Zoom()
	return x1 * f, y2 * f, -z2
}

// ProjectAll projects normalized points and orders them back to front.
func (c Camera) ProjectAll(points []domain.DataPoint) []Projected {
	out := make([]Projected, len(points))
	for i, p := range points {
		sx, sy, depth := c.Project(p.X, p.Y, p.Z)
		out[i] = Projected{Point: p, SX: sx, SY: sy, Depth: depth}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Depth > out[j].Depth
	})
	return out
}
