package game

import (
	"math/rand"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/object"
	"github.com/tomz197/rockfield/internal/physics"
)

// Spawner schedules asteroid waves and saucer appearances.
type Spawner struct {
	cfg config.Config
	rng *rand.Rand

	asteroidLeft float64 // Seconds until the next mid-wave asteroid; +Inf disables
	saucerLeft   float64 // Seconds until the next saucer
}

// NewSpawner creates a spawner with both countdowns armed.
func NewSpawner(cfg config.Config, rng *rand.Rand) *Spawner {
	s := &Spawner{cfg: cfg, rng: rng}
	s.asteroidLeft = cfg.Asteroid.RespawnInterval
	s.ResetSaucerTimer()
	return s
}

// AsteroidCountdown returns the seconds until the next mid-wave asteroid.
func (s *Spawner) AsteroidCountdown() float64 { return s.asteroidLeft }

// SaucerCountdown returns the seconds until the next saucer.
func (s *Spawner) SaucerCountdown() float64 { return s.saucerLeft }

// ResetSaucerTimer draws a new saucer countdown from [SpawnMin, SpawnMax].
func (s *Spawner) ResetSaucerTimer() {
	lo, hi := s.cfg.Saucer.SpawnMin, s.cfg.Saucer.SpawnMax
	s.saucerLeft = lo + s.rng.Float64()*(hi-lo)
}

// SpawnWave queues a full wave of max-tier asteroids away from the ship
// and rearms the replenish countdown.
func (s *Spawner) SpawnWave(store *Store) {
	for i := 0; i < s.cfg.Asteroid.SpawnCount; i++ {
		store.SpawnAsteroid(s.newAsteroid(store.Ship))
	}
	s.asteroidLeft = s.cfg.Asteroid.RespawnInterval
}

// Tick advances both countdowns by dt and queues whatever came due.
func (s *Spawner) Tick(dt float64, store *Store) {
	// Infinity minus dt stays infinite, so a disabled countdown never fires.
	s.asteroidLeft -= dt
	if s.asteroidLeft <= 0 {
		store.SpawnAsteroid(s.newAsteroid(store.Ship))
		s.asteroidLeft = s.cfg.Asteroid.RespawnInterval
	}

	s.saucerLeft -= dt
	if s.saucerLeft <= 0 {
		variants := s.cfg.Saucer.Variants
		variant := variants[s.rng.Intn(len(variants))]
		store.SpawnSaucer(object.NewSaucerAtEdge(s.cfg.Field.Width, s.cfg.Field.Height, variant, s.cfg.Saucer, s.rng))
		s.ResetSaucerTimer()
	}
}

func (s *Spawner) newAsteroid(ship *object.Ship) *object.Asteroid {
	x, y := s.safePosition(ship)
	heading := s.rng.Float64() * 360
	return object.NewAsteroid(x, y, s.cfg.Asteroid.MaxTier, heading, s.cfg.Asteroid, s.rng)
}

// safePosition samples field positions until one lies farther than
// MinSpawnDistance from the ship. After SpawnAttempts tries the last sample
// is used as is.
func (s *Spawner) safePosition(ship *object.Ship) (float64, float64) {
	w, h := s.cfg.Field.Width, s.cfg.Field.Height
	minDistSq := s.cfg.Asteroid.MinSpawnDistance * s.cfg.Asteroid.MinSpawnDistance

	var x, y float64
	for i := 0; i < s.cfg.Asteroid.SpawnAttempts; i++ {
		x = s.rng.Float64() * w
		y = s.rng.Float64() * h
		if ship == nil || physics.DistanceSquared(x, y, ship.X, ship.Y) > minDistSq {
			break
		}
	}
	return x, y
}
