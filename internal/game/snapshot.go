package game

import (
	"github.com/tomz197/rockfield/internal/object"
)

// EntityView is a read-only copy of one live entity.
type EntityView struct {
	Kind   object.Kind
	X, Y   float64
	Angle  float64
	Extent float64 // Bounding box edge
	Tier   int     // Asteroids only
	Points int     // Saucers only
}

// ShipView is a read-only copy of the ship.
type ShipView struct {
	X, Y       float64
	Angle      float64
	Extent     float64
	Lives      int
	Intangible bool
	Thrusting  bool
}

// Snapshot is an immutable picture of the world after a tick.
// Renderers and hosts may keep it for as long as they like.
type Snapshot struct {
	Width, Height  float64
	Entities       []EntityView // Asteroids, saucers and projectiles
	Ship           ShipView
	Score          int
	Fired          int
	Hit            int
	Accuracy       float64
	FinalScore     int // Set once the phase is PhaseGameOver
	Level          int
	Phase          Phase
	PauseRemaining float64
	Muted          bool
	Tick           uint64
}

// Snapshot copies the current world state.
func (s *Session) Snapshot() *Snapshot {
	st := s.store
	entities := make([]EntityView, 0, len(st.Asteroids)+len(st.Saucers)+len(st.Projectiles))
	st.Each(func(e object.Entity) {
		if !e.IsAlive() || e.Kind() == object.KindShip {
			return
		}
		x, y := e.Position()
		v := EntityView{Kind: e.Kind(), X: x, Y: y, Angle: e.Base().Angle, Extent: e.Extent()}
		switch e := e.(type) {
		case *object.Asteroid:
			v.Tier = e.Tier
		case *object.Saucer:
			v.Points = e.Points
		}
		entities = append(entities, v)
	})

	ship := st.Ship
	snap := &Snapshot{
		Width:    s.cfg.Field.Width,
		Height:   s.cfg.Field.Height,
		Entities: entities,
		Ship: ShipView{
			X:          ship.X,
			Y:          ship.Y,
			Angle:      ship.Angle,
			Extent:     ship.Extent(),
			Lives:      ship.Lives,
			Intangible: ship.Intangible,
			Thrusting:  ship.Thrusting,
		},
		Score:          s.score.Score,
		Fired:          s.score.Fired,
		Hit:            s.score.Hit,
		Accuracy:       s.score.Accuracy(),
		Level:          s.level,
		Phase:          s.pause.Phase(),
		PauseRemaining: s.pause.Remaining(),
		Muted:          s.settings.Muted,
		Tick:           s.tick,
	}
	if snap.Phase == PhaseGameOver {
		snap.FinalScore = s.score.FinalScore()
	}
	return snap
}

// Count returns how many live entities of kind the snapshot holds.
func (s *Snapshot) Count(kind object.Kind) int {
	n := 0
	for _, e := range s.Entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
