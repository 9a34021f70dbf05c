// Package object defines the simulated entities and their per-tick physics.
package object

import (
	"math/rand"

	"github.com/tomz197/rockfield/internal/physics"
)

// Kind tags an entity for snapshots and renderers.
type Kind int

const (
	KindShip Kind = iota
	KindAsteroid
	KindSaucer
	KindProjectile
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindAsteroid:
		return "asteroid"
	case KindSaucer:
		return "saucer"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Movable is implemented by entities that integrate their own motion.
type Movable interface {
	// Move advances the entity by dt seconds.
	Move(dt float64)
}

// Collidable is implemented by entities with a bounding box.
type Collidable interface {
	Bounds() physics.Rect
	IsAlive() bool
}

// Wrappable is implemented by entities confined to the toroidal field.
type Wrappable interface {
	// WrapIn applies the wrap correction and reports whether it wrapped.
	WrapIn(width, height float64) bool
}

// Entity is the full capability set shared by every simulated kind.
type Entity interface {
	Movable
	Collidable
	Wrappable
	Kind() Kind
	Base() *Body
	Position() (float64, float64)
	Extent() float64
}

// Body is the state common to all entities.
type Body struct {
	X, Y   float64 // Centre position
	VX, VY float64 // Velocity, units/s
	Angle  float64 // Orientation in degrees (0 = up)
	Size   float64 // Bounding box edge at scale 1
	Scale  float64
	Alive  bool
}

// Base returns the body itself (lets embedding types satisfy Entity).
func (b *Body) Base() *Body {
	return b
}

// Bounds returns the axis-aligned bounding box.
func (b *Body) Bounds() physics.Rect {
	e := b.Extent()
	return physics.RectAround(b.X, b.Y, e, e)
}

// Extent returns the bounding box edge after scaling.
func (b *Body) Extent() float64 {
	return b.Size * b.Scale
}

// IsAlive reports whether the entity has not been destroyed.
func (b *Body) IsAlive() bool {
	return b.Alive
}

// Kill marks the entity for removal. Killing twice is harmless.
func (b *Body) Kill() {
	b.Alive = false
}

// Position returns the centre.
func (b *Body) Position() (float64, float64) {
	return b.X, b.Y
}

// WrapIn applies physics.Wrap to the body.
func (b *Body) WrapIn(width, height float64) bool {
	dx, dy, wrapped := physics.Wrap(b.Bounds(), width, height)
	b.X += dx
	b.Y += dy
	return wrapped
}

// integrate applies velocity for dt seconds.
func (b *Body) integrate(dt float64) {
	b.X += b.VX * dt
	b.Y += b.VY * dt
}

// setHeading points the velocity along angle at the given speed.
func (b *Body) setHeading(angle, speed float64) {
	hx, hy := physics.Heading(angle)
	b.VX = hx * speed
	b.VY = hy * speed
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
