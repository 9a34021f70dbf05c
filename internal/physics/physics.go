// Package physics provides collision geometry, wrap-around topology and distance utilities.
package physics

import "math"

// Rect is an axis-aligned bounding box. Y grows upward.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// RectAround returns the box of size w×h centred on (x, y).
func RectAround(x, y, w, h float64) Rect {
	return Rect{
		MinX: x - w/2,
		MinY: y - h/2,
		MaxX: x + w/2,
		MaxY: y + h/2,
	}
}

// Overlaps reports whether the two boxes intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX &&
		r.MinY < o.MaxY && o.MinY < r.MaxY
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Heading returns the unit facing vector for an angle in degrees,
// where 0° points up and angles grow counter-clockwise.
func Heading(deg float64) (float64, float64) {
	rad := deg*math.Pi/180 + math.Pi/2
	return math.Cos(rad), math.Sin(rad)
}

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
