package game

import (
	"github.com/tomz197/rockfield/internal/object"
)

// Store owns every live entity of a session.
// New entities are queued with the Spawn* methods and become visible after
// Flush, so a pass iterating a collection never sees its own additions.
// Removal is flag based: callers Kill entities and Compact drops them.
type Store struct {
	Ship        *object.Ship
	Asteroids   []*object.Asteroid
	Saucers     []*object.Saucer
	Projectiles []*object.Projectile

	pendingAsteroids   []*object.Asteroid
	pendingSaucers     []*object.Saucer
	pendingProjectiles []*object.Projectile
}

// NewStore creates a store holding only the ship.
func NewStore(ship *object.Ship) *Store {
	return &Store{Ship: ship}
}

// SpawnAsteroid queues an asteroid to be added on the next Flush.
func (s *Store) SpawnAsteroid(a *object.Asteroid) {
	s.pendingAsteroids = append(s.pendingAsteroids, a)
}

// SpawnSaucer queues a saucer to be added on the next Flush.
func (s *Store) SpawnSaucer(sc *object.Saucer) {
	s.pendingSaucers = append(s.pendingSaucers, sc)
}

// SpawnProjectile queues a projectile to be added on the next Flush.
func (s *Store) SpawnProjectile(p *object.Projectile) {
	s.pendingProjectiles = append(s.pendingProjectiles, p)
}

// Flush adds all queued entities and clears the queues.
func (s *Store) Flush() {
	s.Asteroids = append(s.Asteroids, s.pendingAsteroids...)
	s.Saucers = append(s.Saucers, s.pendingSaucers...)
	s.Projectiles = append(s.Projectiles, s.pendingProjectiles...)
	clear(s.pendingAsteroids)
	clear(s.pendingSaucers)
	clear(s.pendingProjectiles)
	s.pendingAsteroids = s.pendingAsteroids[:0]
	s.pendingSaucers = s.pendingSaucers[:0]
	s.pendingProjectiles = s.pendingProjectiles[:0]
}

// Compact drops dead entities from every collection in place.
func (s *Store) Compact() {
	s.Asteroids = compact(s.Asteroids)
	s.Saucers = compact(s.Saucers)
	s.Projectiles = compact(s.Projectiles)
}

// ClearProjectiles removes every projectile, queued ones included.
func (s *Store) ClearProjectiles() {
	s.Projectiles = truncate(s.Projectiles)
	s.pendingProjectiles = truncate(s.pendingProjectiles)
}

// ClearLevel removes every asteroid, saucer and projectile.
func (s *Store) ClearLevel() {
	s.ClearProjectiles()
	s.Asteroids = truncate(s.Asteroids)
	s.pendingAsteroids = truncate(s.pendingAsteroids)
	s.Saucers = truncate(s.Saucers)
	s.pendingSaucers = truncate(s.pendingSaucers)
}

// LiveAsteroids counts asteroids still alive, queued ones included.
func (s *Store) LiveAsteroids() int {
	n := 0
	for _, a := range s.Asteroids {
		if a.Alive {
			n++
		}
	}
	for _, a := range s.pendingAsteroids {
		if a.Alive {
			n++
		}
	}
	return n
}

// Each calls fn for every stored entity: asteroids, saucers, projectiles,
// then the ship.
func (s *Store) Each(fn func(object.Entity)) {
	for _, a := range s.Asteroids {
		fn(a)
	}
	for _, sc := range s.Saucers {
		fn(sc)
	}
	for _, p := range s.Projectiles {
		fn(p)
	}
	if s.Ship != nil {
		fn(s.Ship)
	}
}

// compact keeps the live entries, reusing the backing array.
func compact[T object.Collidable](list []T) []T {
	kept := list[:0]
	for _, e := range list {
		if e.IsAlive() {
			kept = append(kept, e)
		}
	}
	var zero T
	for i := len(kept); i < len(list); i++ {
		list[i] = zero
	}
	return kept
}

func truncate[T any](list []T) []T {
	clear(list)
	return list[:0]
}
