package object

import (
	"math"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/physics"
)

// Ship is the player-controlled spaceship.
type Ship struct {
	Body

	Lives      int
	Intangible bool // Set while the world is paused after a hit; suppresses collisions
	Thrusting  bool

	thrust      float64 // Acceleration when thrusting
	maxSpeed    float64 // Maximum velocity magnitude
	rotateSpeed float64 // Degrees per second
	drag        float64 // Velocity kept per second when coasting (1.0 = no drag)
}

// NewShip creates a ship at (x, y) pointing up.
func NewShip(x, y float64, cfg config.ShipConfig) *Ship {
	return &Ship{
		Body: Body{
			X:     x,
			Y:     y,
			Size:  cfg.Size,
			Scale: 1,
			Alive: true,
		},
		Lives:       cfg.Lives,
		thrust:      cfg.Thrust,
		maxSpeed:    cfg.MaxSpeed,
		rotateSpeed: cfg.RotateSpeed,
		drag:        cfg.Drag,
	}
}

// Kind implements Entity.
func (s *Ship) Kind() Kind { return KindShip }

// Rotate turns the ship; dir is +1 for counter-clockwise (left), -1 for clockwise.
func (s *Ship) Rotate(dir, dt float64) {
	s.Angle = physics.NormalizeAngle(s.Angle + dir*s.rotateSpeed*dt)
}

// Steer applies one tick of thrust or drag.
func (s *Ship) Steer(thrusting bool, dt float64) {
	s.Thrusting = thrusting
	if thrusting {
		hx, hy := physics.Heading(s.Angle)
		s.VX += hx * s.thrust * dt
		s.VY += hy * s.thrust * dt
		return
	}
	if s.drag < 1 {
		f := math.Pow(s.drag, dt)
		s.VX *= f
		s.VY *= f
	}
}

// Move clamps the speed and integrates position.
func (s *Ship) Move(dt float64) {
	speed := math.Hypot(s.VX, s.VY)
	if speed > s.maxSpeed {
		k := s.maxSpeed / speed
		s.VX *= k
		s.VY *= k
	}
	s.integrate(dt)
}

// Fire creates a projectile leaving the ship's centre along its facing.
func (s *Ship) Fire(cfg config.ProjectileConfig) *Projectile {
	return NewProjectile(s.X, s.Y, s.Angle, cfg)
}

// LoseLife removes one life and makes the ship intangible.
// Returns true when no lives remain. Lives never go negative.
func (s *Ship) LoseLife() bool {
	if s.Lives > 0 {
		s.Lives--
	}
	s.Intangible = true
	s.Thrusting = false
	return s.Lives == 0
}

// Respawn places the ship at (x, y) at rest with the given heading and
// makes it tangible again.
func (s *Ship) Respawn(x, y, angle float64) {
	s.X, s.Y = x, y
	s.VX, s.VY = 0, 0
	s.Angle = physics.NormalizeAngle(angle)
	s.Intangible = false
	s.Thrusting = false
}
