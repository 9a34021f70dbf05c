package draw

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/rockfield/internal/game"
)

// particlePool recycles particles; explosions create dozens at a time.
var particlePool = sync.Pool{
	New: func() any {
		return &particle{}
	},
}

// particle is a short-lived dot in field space (y-up).
type particle struct {
	x, y    float64
	vx, vy  float64
	life    float64 // Seconds remaining
	maxLife float64
	drag    float64 // Velocity kept per 1/60 s
}

func newParticle(x, y, vx, vy, life, drag float64) *particle {
	p := particlePool.Get().(*particle)
	*p = particle{x: x, y: y, vx: vx, vy: vy, life: life, maxLife: life, drag: drag}
	return p
}

// Effects is a client-side particle system driven by game events.
// It is not safe for concurrent use.
type Effects struct {
	particles []*particle
	rng       *rand.Rand
}

// NewEffects creates an empty effect system.
func NewEffects(seed int64) *Effects {
	return &Effects{rng: rand.New(rand.NewSource(seed))}
}

// Len returns the number of live particles.
func (fx *Effects) Len() int {
	return len(fx.particles)
}

// HandleEvent spawns an explosion for destruction events.
func (fx *Effects) HandleEvent(e game.Event) {
	switch e.Kind {
	case game.EventAsteroidDestroyed:
		fx.explode(e.X, e.Y, 6+3*e.Tier, 40+10*float64(e.Tier), 0.6)
	case game.EventTargetDestroyed:
		fx.explode(e.X, e.Y, 14, 70, 0.7)
	case game.EventShipHit:
		fx.explode(e.X, e.Y, 24, 90, 1.2)
	case game.EventLevelComplete, game.EventGameOver:
		fx.Clear()
	}
}

func (fx *Effects) explode(x, y float64, count int, speed, life float64) {
	for range count {
		angle := fx.rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + fx.rng.Float64())
		l := life * (0.5 + fx.rng.Float64()*0.5)
		fx.particles = append(fx.particles,
			newParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, l, 0.95))
	}
}

// Trail emits exhaust behind a thrusting ship.
func (fx *Effects) Trail(s game.ShipView) {
	if !s.Thrusting || s.Lives <= 0 {
		return
	}
	// Tail of the ship, opposite the heading
	hx, hy := rotate(0, 1, s.Angle)
	tx, ty := s.X-hx*s.Extent/2, s.Y-hy*s.Extent/2

	for range 1 + fx.rng.Intn(2) {
		spread := (fx.rng.Float64() - 0.5) * 30
		dx, dy := rotate(0, -1, s.Angle+spread)
		speed := 60 + fx.rng.Float64()*40
		life := 0.1 + fx.rng.Float64()*0.15
		fx.particles = append(fx.particles, newParticle(tx, ty, dx*speed, dy*speed, life, 0.85))
	}
}

// Update ages and moves every particle, releasing the expired ones.
func (fx *Effects) Update(dt float64) {
	live := fx.particles[:0]
	for _, p := range fx.particles {
		p.life -= dt
		if p.life <= 0 {
			particlePool.Put(p)
			continue
		}
		k := math.Pow(p.drag, dt*60)
		p.vx *= k
		p.vy *= k
		p.x += p.vx * dt
		p.y += p.vy * dt
		live = append(live, p)
	}
	clear(fx.particles[len(live):])
	fx.particles = live
}

// Clear drops every particle.
func (fx *Effects) Clear() {
	for _, p := range fx.particles {
		particlePool.Put(p)
	}
	clear(fx.particles)
	fx.particles = fx.particles[:0]
}

// Draw plots the particles through r. Nearly spent particles are skipped.
func (fx *Effects) Draw(r *Renderer) {
	for _, p := range fx.particles {
		if p.life/p.maxLife < 0.25 {
			continue
		}
		r.canvas.SetFloat(p.x, r.height-p.y)
	}
}
