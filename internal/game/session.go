// Package game is the fixed-timestep simulation core: entity storage, spawn
// scheduling, collision resolution, the hit/respawn pause machine and score
// accounting, composed by Session.
//
// The package performs no I/O. Hosts call Session.Advance once per tick with
// the player's intents and forward the returned events to audio, FX and
// leaderboard collaborators.
package game

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/object"
)

// Intents is the debounced player input for one tick.
// Fire and ToggleMute are edge triggered: true only on the tick of the press.
type Intents struct {
	Thrust      bool
	RotateLeft  bool
	RotateRight bool
	Fire        bool
	ToggleMute  bool
}

// Merge ORs the edge-triggered fields of next into in and takes the held
// fields from next.
func (in Intents) Merge(next Intents) Intents {
	return Intents{
		Thrust:      next.Thrust,
		RotateLeft:  next.RotateLeft,
		RotateRight: next.RotateRight,
		Fire:        in.Fire || next.Fire,
		ToggleMute:  in.ToggleMute || next.ToggleMute,
	}
}

// SessionConfig holds per-session settings the player can change mid-game.
type SessionConfig struct {
	Muted bool
}

// Options configures a Session beyond the tuning config.
type Options struct {
	Seed     int64 // Random seed; equal seeds replay identically
	Settings SessionConfig
	Logger   *log.Logger // Defaults to a discarding logger
}

// Session composes the core components and advances them tick by tick.
// It is not safe for concurrent use.
type Session struct {
	cfg    config.Config
	rng    *rand.Rand
	logger *log.Logger

	store    *Store
	spawner  *Spawner
	resolver *Resolver
	pause    Pause
	score    Scoreboard
	settings SessionConfig

	level     int
	tick      uint64
	thrusting bool

	events []Event // Reused between ticks
}

// NewSession validates cfg and starts level 1.
func NewSession(cfg config.Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	s := &Session{
		cfg:      cfg,
		rng:      rng,
		logger:   logger,
		resolver: NewResolver(cfg, rng),
		settings: opts.Settings,
	}
	s.start()
	return s, nil
}

// start resets everything to the first level.
func (s *Session) start() {
	w, h := s.cfg.Field.Width, s.cfg.Field.Height
	s.store = NewStore(object.NewShip(w/2, h/2, s.cfg.Ship))
	s.spawner = NewSpawner(s.cfg, s.rng)
	s.pause = NewPause(s.cfg.PauseDuration)
	s.score.Reset()
	s.level = 1
	s.thrusting = false

	s.spawner.SpawnWave(s.store)
	s.store.Flush()
}

// Restart begins a new game, keeping the session settings.
func (s *Session) Restart() {
	s.logger.Debug("restarting session", "previousScore", s.score.Score, "level", s.level)
	s.start()
}

// ToggleMute flips the mute setting and returns the new value.
func (s *Session) ToggleMute() bool {
	s.settings.Muted = !s.settings.Muted
	return s.settings.Muted
}

// Settings returns the current session settings.
func (s *Session) Settings() SessionConfig { return s.settings }

// Config returns the tuning the session runs with.
func (s *Session) Config() config.Config { return s.cfg }

func (s *Session) Level() int        { return s.level }
func (s *Session) Phase() Phase      { return s.pause.Phase() }
func (s *Session) Score() Scoreboard { return s.score }
func (s *Session) Store() *Store     { return s.store }
func (s *Session) Spawner() *Spawner { return s.spawner }

// Advance runs one tick of dt seconds and returns the events it produced.
// The returned slice is reused by the next call.
//
// Order: intents, collisions, spawns, movement and wrap, then the level check.
// While paused only the countdown advances. After game over only the mute
// toggle is processed.
func (s *Session) Advance(dt float64, in Intents) []Event {
	s.events = s.events[:0]
	s.tick++

	if in.ToggleMute {
		muted := s.ToggleMute()
		s.events = append(s.events, Event{Kind: EventMuteChanged, Muted: muted})
	}

	switch s.pause.Phase() {
	case PhaseGameOver:
		return s.events
	case PhasePaused:
		if s.pause.Tick(dt) {
			s.endPause()
		}
		return s.events
	}

	s.applyIntents(dt, in)

	var hit bool
	s.events, hit = s.resolver.Resolve(s.store, &s.score, s.events)
	s.store.Compact()
	s.store.Flush()
	if hit {
		s.shipHit()
		return s.events
	}

	s.spawner.Tick(dt, s.store)
	s.store.Flush()

	s.move(dt)
	s.store.Compact()

	if s.store.LiveAsteroids() == 0 {
		s.completeLevel()
	}
	return s.events
}

func (s *Session) applyIntents(dt float64, in Intents) {
	ship := s.store.Ship

	switch {
	case in.RotateLeft && !in.RotateRight:
		ship.Rotate(1, dt)
	case in.RotateRight && !in.RotateLeft:
		ship.Rotate(-1, dt)
	}

	ship.Steer(in.Thrust, dt)
	s.setThrusting(in.Thrust)

	if in.Fire {
		s.store.SpawnProjectile(ship.Fire(s.cfg.Projectile))
		s.events = append(s.events, Event{Kind: EventShotFired, X: ship.X, Y: ship.Y})
	}
	s.store.Flush()
}

func (s *Session) setThrusting(on bool) {
	if on == s.thrusting {
		return
	}
	s.thrusting = on
	kind := EventThrustStopped
	if on {
		kind = EventThrustStarted
	}
	ship := s.store.Ship
	s.events = append(s.events, Event{Kind: kind, X: ship.X, Y: ship.Y})
}

// move integrates and wraps every entity and expires spent projectiles.
func (s *Session) move(dt float64) {
	w, h := s.cfg.Field.Width, s.cfg.Field.Height
	st := s.store

	ship := st.Ship
	ship.Move(dt)
	if ship.WrapIn(w, h) {
		s.events = append(s.events, Event{Kind: EventShipWrapped, X: ship.X, Y: ship.Y})
	}

	for _, a := range st.Asteroids {
		a.Move(dt)
		a.WrapIn(w, h)
	}
	for _, sc := range st.Saucers {
		sc.Move(dt)
		sc.WrapIn(w, h)
	}
	for _, p := range st.Projectiles {
		p.Move(dt)
		p.WrapIn(w, h)
		if p.Expired() {
			p.Kill()
			s.score.RecordShot(false)
		}
	}
}

func (s *Session) shipHit() {
	s.setThrusting(false)
	s.pause.Enter()
	s.logger.Debug("ship hit", "lives", s.store.Ship.Lives, "pause", s.cfg.PauseDuration)
}

// endPause either ends the game or resets the ship for another life.
func (s *Session) endPause() {
	ship := s.store.Ship
	if ship.Lives == 0 {
		s.pause.Finish()
		final := s.score.FinalScore()
		s.events = append(s.events, Event{Kind: EventGameOver, X: ship.X, Y: ship.Y, FinalScore: final})
		s.logger.Debug("game over", "score", s.score.Score, "accuracy", s.score.Accuracy(), "final", final, "level", s.level)
		return
	}
	s.resetShip()
	s.pause.Resume()
}

// resetShip recentres the ship at rest with a jittered heading and clears
// all projectiles.
func (s *Session) resetShip() {
	jitter := s.cfg.Ship.RespawnJitter
	angle := -jitter + s.rng.Float64()*2*jitter
	s.store.Ship.Respawn(s.cfg.Field.Width/2, s.cfg.Field.Height/2, angle)
	s.store.ClearProjectiles()
}

func (s *Session) completeLevel() {
	s.level++
	s.store.ClearLevel()
	s.spawner.SpawnWave(s.store)
	s.store.Flush()
	s.events = append(s.events, Event{Kind: EventLevelComplete, Level: s.level})
	s.logger.Debug("level complete", "level", s.level, "score", s.score.Score)
}
