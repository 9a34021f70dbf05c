package object

import (
	"math"

	"github.com/tomz197/rockfield/internal/config"
)

// Projectile is a shot fired by the ship.
type Projectile struct {
	Body
	Traveled float64 // Cumulative distance
	Range    float64 // Distance after which the shot expires
}

// NewProjectile creates a projectile at (x, y) travelling along angle.
func NewProjectile(x, y, angle float64, cfg config.ProjectileConfig) *Projectile {
	p := &Projectile{
		Body: Body{
			X:     x,
			Y:     y,
			Angle: angle,
			Size:  cfg.Size,
			Scale: 1,
			Alive: true,
		},
		Range: cfg.Range,
	}
	p.setHeading(angle, cfg.Speed)
	return p
}

// Kind implements Entity.
func (p *Projectile) Kind() Kind { return KindProjectile }

// Move integrates position and accumulates travelled distance.
func (p *Projectile) Move(dt float64) {
	p.integrate(dt)
	p.Traveled += math.Hypot(p.VX, p.VY) * dt
}

// Expired reports whether the projectile has exceeded its range.
func (p *Projectile) Expired() bool {
	return p.Traveled > p.Range
}
