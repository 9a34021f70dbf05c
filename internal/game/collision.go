package game

import (
	"math/rand"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/object"
	"github.com/tomz197/rockfield/internal/physics"
)

// Resolver runs the per-tick collision passes in fixed precedence:
// projectile×saucer, ship×saucer, projectile×asteroid, ship×asteroid.
// It only kills entities and queues children; the caller compacts and
// flushes the store afterwards.
type Resolver struct {
	cfg  config.Config
	rng  *rand.Rand
	grid *physics.Grid // Asteroid broad phase, rebuilt each pass
}

// NewResolver creates a resolver for the configured field.
func NewResolver(cfg config.Config, rng *rand.Rand) *Resolver {
	return &Resolver{
		cfg:  cfg,
		rng:  rng,
		grid: physics.NewGrid(cfg.Field.Width, cfg.Field.Height, cfg.AsteroidExtent(cfg.Asteroid.MaxTier)),
	}
}

// Resolve runs all four passes and appends the resulting events.
// It reports whether the ship was hit; the ship has already lost a life
// when it returns true.
func (r *Resolver) Resolve(store *Store, score *Scoreboard, events []Event) ([]Event, bool) {
	events = r.projectilesVsSaucers(store, score, events)
	events, hitBySaucer := r.shipVsSaucers(store, events)
	events = r.projectilesVsAsteroids(store, score, events)
	events, hitByAsteroid := r.shipVsAsteroids(store, events)
	return events, hitBySaucer || hitByAsteroid
}

func (r *Resolver) projectilesVsSaucers(store *Store, score *Scoreboard, events []Event) []Event {
	for _, sc := range store.Saucers {
		if !sc.Alive {
			continue
		}
		box := sc.Bounds()
		for _, p := range store.Projectiles {
			if !p.Alive || !p.Bounds().Overlaps(box) {
				continue
			}
			p.Kill()
			sc.Kill()
			score.RecordShot(true)
			score.Add(sc.Points)
			events = append(events, Event{Kind: EventTargetDestroyed, X: sc.X, Y: sc.Y})
			break
		}
	}
	return events
}

func (r *Resolver) shipVsSaucers(store *Store, events []Event) ([]Event, bool) {
	ship := store.Ship
	if ship == nil || ship.Intangible {
		return events, false
	}
	box := ship.Bounds()
	for _, sc := range store.Saucers {
		if !sc.Alive || !sc.Bounds().Overlaps(box) {
			continue
		}
		sc.Kill()
		return r.hitShip(ship, events), true
	}
	return events, false
}

func (r *Resolver) projectilesVsAsteroids(store *Store, score *Scoreboard, events []Event) []Event {
	asteroids := store.Asteroids
	r.grid.Clear()
	for i, a := range asteroids {
		if a.Alive {
			r.grid.Insert(a.Bounds(), i)
		}
	}

	for _, p := range store.Projectiles {
		if !p.Alive {
			continue
		}
		box := p.Bounds()
		r.grid.Query(box, func(i int) bool {
			a := asteroids[i]
			if !a.Alive || !a.Bounds().Overlaps(box) {
				return false
			}
			p.Kill()
			a.Kill()
			score.RecordShot(true)
			score.Add(a.Points(r.cfg.Asteroid.PointsBase))
			events = append(events, Event{Kind: EventAsteroidDestroyed, X: a.X, Y: a.Y, Tier: a.Tier})
			for _, child := range a.Split(p.Angle, r.cfg.Asteroid, r.rng) {
				store.SpawnAsteroid(child)
			}
			return true
		})
	}
	return events
}

// shipVsAsteroids destroys the asteroid without splitting it.
func (r *Resolver) shipVsAsteroids(store *Store, events []Event) ([]Event, bool) {
	ship := store.Ship
	if ship == nil || ship.Intangible {
		return events, false
	}
	box := ship.Bounds()
	for _, a := range store.Asteroids {
		if !a.Alive || !a.Bounds().Overlaps(box) {
			continue
		}
		a.Kill()
		return r.hitShip(ship, events), true
	}
	return events, false
}

func (r *Resolver) hitShip(ship *object.Ship, events []Event) []Event {
	ship.LoseLife()
	return append(events, Event{Kind: EventShipHit, X: ship.X, Y: ship.Y})
}
