package object

import (
	"math/rand"

	"github.com/tomz197/rockfield/internal/config"
)

// Edge is a side of the play field.
type Edge int

const (
	EdgeBottom Edge = iota
	EdgeTop
	EdgeLeft
	EdgeRight
)

// inward returns the heading pointing into the field from the edge.
func (e Edge) inward() float64 {
	switch e {
	case EdgeTop:
		return 180
	case EdgeLeft:
		return -90
	case EdgeRight:
		return 90
	default:
		return 0
	}
}

// Saucer is a bonus target wandering the field until shot.
type Saucer struct {
	Body
	Points int
	Edge   Edge // Edge it entered from

	speed    float64
	turnMin  float64
	turnMax  float64
	turnLeft float64 // Seconds until the next direction change
	rng      *rand.Rand
}

// NewSaucerAtEdge creates a saucer on a random edge heading into the field.
func NewSaucerAtEdge(width, height float64, variant config.SaucerVariant, cfg config.SaucerConfig, rng *rand.Rand) *Saucer {
	edge := Edge(rng.Intn(4))

	var x, y float64
	switch edge {
	case EdgeBottom:
		x, y = rng.Float64()*width, 0
	case EdgeTop:
		x, y = rng.Float64()*width, height
	case EdgeLeft:
		x, y = 0, rng.Float64()*height
	case EdgeRight:
		x, y = width, rng.Float64()*height
	}

	s := &Saucer{
		Body: Body{
			X:     x,
			Y:     y,
			Size:  cfg.Size,
			Scale: variant.Scale,
			Alive: true,
		},
		Points:  variant.Points,
		Edge:    edge,
		speed:   cfg.Speed,
		turnMin: cfg.TurnMin,
		turnMax: cfg.TurnMax,
		rng:     rng,
	}
	// Aim inward with up to ±45° spread
	s.Angle = edge.inward() + uniform(rng, -45, 45)
	s.setHeading(s.Angle, s.speed)
	s.turnLeft = uniform(rng, s.turnMin, s.turnMax)
	return s
}

// Kind implements Entity.
func (s *Saucer) Kind() Kind { return KindSaucer }

// Move counts down the direction timer, picks a new random heading when it
// runs out, then integrates position.
func (s *Saucer) Move(dt float64) {
	s.turnLeft -= dt
	if s.turnLeft <= 0 {
		s.Angle = s.rng.Float64() * 360
		s.setHeading(s.Angle, s.speed)
		s.turnLeft = uniform(s.rng, s.turnMin, s.turnMax)
	}
	s.integrate(dt)
}
