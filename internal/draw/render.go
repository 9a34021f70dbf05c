package draw

import (
	"math"

	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/object"
)

// jag scales alternate asteroid vertices so rocks look irregular.
var jag = [...]float64{1, 0.82, 0.95, 0.74, 1, 0.86, 0.9, 0.78, 0.97, 0.84}

// blinkTicks is the half-period of the intangible ship blink.
const blinkTicks = 8

// Renderer draws snapshots onto a Canvas. Field coordinates are y-up;
// the canvas is y-down, so every point is flipped on the way in.
type Renderer struct {
	canvas *Canvas
	width  float64
	height float64
}

// NewRenderer binds a renderer to a canvas whose logical size is the field.
func NewRenderer(c *Canvas) *Renderer {
	return &Renderer{canvas: c, width: c.LogicalWidth(), height: c.LogicalHeight()}
}

// Canvas returns the canvas being drawn to.
func (r *Renderer) Canvas() *Canvas {
	return r.canvas
}

// Draw clears the canvas and draws every entity in snap.
// It does not Render; callers flush after adding effects and text.
func (r *Renderer) Draw(snap *game.Snapshot) {
	r.canvas.Clear()

	for _, e := range snap.Entities {
		switch e.Kind {
		case object.KindAsteroid:
			r.ghosted(e.X, e.Y, e.Extent, func(x, y float64) { r.asteroid(x, y, e) })
		case object.KindSaucer:
			r.ghosted(e.X, e.Y, e.Extent, func(x, y float64) { r.saucer(x, y, e.Extent) })
		case object.KindProjectile:
			r.projectile(e.X, e.Y, e.Extent)
		}
	}

	if snap.Phase == game.PhaseGameOver || snap.Ship.Lives <= 0 {
		return
	}
	ship := snap.Ship
	if ship.Intangible && (snap.Tick/blinkTicks)%2 == 1 {
		return
	}
	r.ghosted(ship.X, ship.Y, ship.Extent, func(x, y float64) { r.ship(x, y, ship) })
}

// ghosted calls draw at (x, y) and at every wrapped copy that would
// still overlap the field, so shapes crossing an edge show on both sides.
func (r *Renderer) ghosted(x, y, extent float64, draw func(x, y float64)) {
	half := extent / 2
	for _, dx := range [3]float64{0, -r.width, r.width} {
		gx := x + dx
		if gx+half < 0 || gx-half > r.width {
			continue
		}
		for _, dy := range [3]float64{0, -r.height, r.height} {
			gy := y + dy
			if gy+half < 0 || gy-half > r.height {
				continue
			}
			draw(gx, gy)
		}
	}
}

// at converts a field-space offset from (cx, cy) into a canvas point.
func (r *Renderer) at(cx, cy, lx, ly, angle float64) Point {
	dx, dy := rotate(lx, ly, angle)
	return Point{X: cx + dx, Y: r.height - (cy + dy)}
}

func (r *Renderer) ship(x, y float64, s game.ShipView) {
	size := s.Extent / 2
	pts := r.canvas.BorrowPoints(4)
	pts[0] = r.at(x, y, 0, size, s.Angle)
	pts[1] = r.at(x, y, -0.7*size, -0.8*size, s.Angle)
	pts[2] = r.at(x, y, 0, -0.4*size, s.Angle)
	pts[3] = r.at(x, y, 0.7*size, -0.8*size, s.Angle)
	r.canvas.DrawPolygon(pts, false)

	if s.Thrusting {
		r.canvas.DrawLine(r.at(x, y, -0.3*size, -0.6*size, s.Angle), r.at(x, y, 0, -1.2*size, s.Angle))
		r.canvas.DrawLine(r.at(x, y, 0.3*size, -0.6*size, s.Angle), r.at(x, y, 0, -1.2*size, s.Angle))
	}
}

func (r *Renderer) asteroid(x, y float64, e game.EntityView) {
	n := 6 + 2*e.Tier
	radius := e.Extent / 2
	pts := r.canvas.BorrowPoints(n)
	for i := range pts {
		theta := 360 * float64(i) / float64(n)
		lx, ly := rotate(0, radius*jag[(i+e.Tier)%len(jag)], theta)
		pts[i] = r.at(x, y, lx, ly, e.Angle)
	}
	r.canvas.DrawPolygon(pts, false)
}

func (r *Renderer) saucer(x, y, extent float64) {
	w := extent / 2
	pts := r.canvas.BorrowPoints(6)
	pts[0] = r.at(x, y, -w, 0, 0)
	pts[1] = r.at(x, y, -w/2, w/3, 0)
	pts[2] = r.at(x, y, w/2, w/3, 0)
	pts[3] = r.at(x, y, w, 0, 0)
	pts[4] = r.at(x, y, w/2, -w/3, 0)
	pts[5] = r.at(x, y, -w/2, -w/3, 0)
	r.canvas.DrawPolygon(pts, false)
	r.canvas.DrawLine(pts[0], pts[3])

	// Dome
	r.canvas.DrawLine(pts[1], r.at(x, y, -w/4, 2*w/3, 0))
	r.canvas.DrawLine(r.at(x, y, -w/4, 2*w/3, 0), r.at(x, y, w/4, 2*w/3, 0))
	r.canvas.DrawLine(r.at(x, y, w/4, 2*w/3, 0), pts[2])
}

func (r *Renderer) projectile(x, y, extent float64) {
	half := math.Max(extent/2, 1)
	pts := r.canvas.BorrowPoints(4)
	pts[0] = r.at(x, y, -half, -half, 0)
	pts[1] = r.at(x, y, half, -half, 0)
	pts[2] = r.at(x, y, half, half, 0)
	pts[3] = r.at(x, y, -half, half, 0)
	r.canvas.DrawPolygon(pts, true)
}
