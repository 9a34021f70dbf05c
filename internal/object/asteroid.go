package object

import (
	"math/rand"

	"github.com/tomz197/rockfield/internal/config"
)

// Asteroid is a fragmenting space rock. Tier 1 is atomic.
type Asteroid struct {
	Body
	Tier  int
	Drift float64 // Angular drift, degrees/s
}

// NewAsteroid creates an asteroid at (x, y) of the given tier travelling along heading.
func NewAsteroid(x, y float64, tier int, heading float64, cfg config.AsteroidConfig, rng *rand.Rand) *Asteroid {
	a := &Asteroid{
		Body: Body{
			X:     x,
			Y:     y,
			Angle: heading,
			Size:  cfg.Size,
			Scale: cfg.Scale * float64(tier),
			Alive: true,
		},
		Tier:  tier,
		Drift: uniform(rng, -cfg.DriftMax, cfg.DriftMax),
	}
	a.setHeading(heading, cfg.Speed)
	return a
}

// Kind implements Entity.
func (a *Asteroid) Kind() Kind { return KindAsteroid }

// Move drifts the orientation and integrates position.
func (a *Asteroid) Move(dt float64) {
	a.Angle += a.Drift * dt
	a.integrate(dt)
}

// Points returns the score for destroying this asteroid: base / tier.
func (a *Asteroid) Points(base int) int {
	return base / a.Tier
}

// Split returns the two children spawned when a projectile travelling at
// destroyerAngle destroys the asteroid, or nil for tier 1.
// Both children start at the parent's position one tier lower, heading
// (destroyerAngle + 90°) offset by up to maxSplitAngle to opposite sides.
func (a *Asteroid) Split(destroyerAngle float64, cfg config.AsteroidConfig, rng *rand.Rand) []*Asteroid {
	if a.Tier <= 1 {
		return nil
	}
	base := destroyerAngle + 90
	left := base + rng.Float64()*cfg.MaxSplitAngle
	right := base - rng.Float64()*cfg.MaxSplitAngle
	return []*Asteroid{
		NewAsteroid(a.X, a.Y, a.Tier-1, left, cfg, rng),
		NewAsteroid(a.X, a.Y, a.Tier-1, right, cfg, rng),
	}
}
