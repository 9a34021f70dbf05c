package game

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/object"
)

const tickDT = 1.0 / 60

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(config.Default(), Options{Seed: 1})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// placeAsteroid replaces the wave with a single asteroid.
func placeAsteroid(s *Session, x, y float64, tier int) *object.Asteroid {
	a := object.NewAsteroid(x, y, tier, 0, s.cfg.Asteroid, s.rng)
	s.store.ClearLevel()
	s.store.Asteroids = append(s.store.Asteroids, a)
	return a
}

func placeProjectile(s *Session, x, y, angle float64) *object.Projectile {
	p := object.NewProjectile(x, y, angle, s.cfg.Projectile)
	s.store.Projectiles = append(s.store.Projectiles, p)
	return p
}

func hasEvent(events []Event, kind EventKind) (Event, bool) {
	for _, e := range events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func runUntilPhaseChange(t *testing.T, s *Session, from Phase) []Event {
	t.Helper()
	var all []Event
	limit := int(s.cfg.PauseDuration/tickDT) + 10
	for i := 0; i < limit && s.Phase() == from; i++ {
		all = append(all, s.Advance(tickDT, Intents{})...)
	}
	if s.Phase() == from {
		t.Fatalf("still %s after %d ticks", from, limit)
	}
	return all
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Ship.Lives = 0
	_, err := NewSession(cfg, Options{})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
}

func TestNewSessionStartsFirstWave(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	if snap.Level != 1 || snap.Phase != PhaseActive {
		t.Fatalf("level %d phase %s", snap.Level, snap.Phase)
	}
	if got := snap.Count(object.KindAsteroid); got != 5 {
		t.Fatalf("asteroids: got %d, want 5", got)
	}
	if snap.Ship.X != 400 || snap.Ship.Y != 300 || snap.Ship.Lives != 3 {
		t.Fatalf("ship: %+v", snap.Ship)
	}
	for _, a := range s.store.Asteroids {
		if a.Tier != 4 {
			t.Errorf("wave asteroid tier %d, want 4", a.Tier)
		}
		if d := math.Hypot(a.X-400, a.Y-300); d <= 150 {
			t.Errorf("wave asteroid %f from ship, want > 150", d)
		}
	}
}

func TestShipHitPausesAndResets(t *testing.T) {
	s := newTestSession(t)
	placeAsteroid(s, 400, 300, 2)
	sentinel := object.NewAsteroid(100, 100, 4, 0, s.cfg.Asteroid, s.rng)
	s.store.Asteroids = append(s.store.Asteroids, sentinel)
	placeProjectile(s, 700, 500, 90)

	events := s.Advance(tickDT, Intents{})
	hit, ok := hasEvent(events, EventShipHit)
	if !ok {
		t.Fatalf("no ship-hit event in %v", events)
	}
	if hit.X != 400 || hit.Y != 300 {
		t.Errorf("ship-hit at (%f,%f)", hit.X, hit.Y)
	}
	if s.store.Ship.Lives != 2 {
		t.Fatalf("lives: got %d, want 2", s.store.Ship.Lives)
	}
	if s.Phase() != PhasePaused {
		t.Fatalf("phase: got %s, want paused", s.Phase())
	}
	if math.Abs(s.pause.Remaining()-s.cfg.PauseDuration) > 1e-9 {
		t.Fatalf("remaining: got %f, want %f", s.pause.Remaining(), s.cfg.PauseDuration)
	}
	for _, a := range s.store.Asteroids {
		if a.Tier == 2 {
			t.Fatal("colliding asteroid still stored")
		}
		if a.Tier == 1 {
			t.Fatal("ship collision split the asteroid")
		}
	}

	s.store.Ship.X, s.store.Ship.VX = 250, 40
	runUntilPhaseChange(t, s, PhasePaused)

	ship := s.store.Ship
	if s.Phase() != PhaseActive {
		t.Fatalf("phase after pause: %s", s.Phase())
	}
	if ship.X != 400 || ship.Y != 300 || ship.VX != 0 || ship.VY != 0 {
		t.Fatalf("ship not reset: %+v", ship.Body)
	}
	if ship.Intangible {
		t.Fatal("ship still intangible after reset")
	}
	off := ship.Angle
	if off > 180 {
		off -= 360
	}
	if math.Abs(off) > s.cfg.Ship.RespawnJitter {
		t.Fatalf("respawn heading %f outside ±%f", ship.Angle, s.cfg.Ship.RespawnJitter)
	}
	if len(s.store.Projectiles) != 0 {
		t.Fatalf("projectiles not cleared: %d", len(s.store.Projectiles))
	}
}

func TestPausedWorldIsFrozen(t *testing.T) {
	s := newTestSession(t)
	placeAsteroid(s, 400, 300, 1)
	sentinel := object.NewAsteroid(100, 100, 4, 0, s.cfg.Asteroid, s.rng)
	s.store.Asteroids = append(s.store.Asteroids, sentinel)
	p := placeProjectile(s, 700, 500, 90)
	s.store.Saucers = append(s.store.Saucers,
		object.NewSaucerAtEdge(800, 600, s.cfg.Saucer.Variants[0], s.cfg.Saucer, s.rng))

	s.Advance(tickDT, Intents{})
	if s.Phase() != PhasePaused {
		t.Fatalf("phase: %s", s.Phase())
	}

	before := s.Snapshot()
	saucerLeft := s.spawner.SaucerCountdown()
	for i := 0; i < 30; i++ {
		events := s.Advance(tickDT, Intents{Thrust: true, Fire: true, RotateLeft: true})
		if len(events) != 0 {
			t.Fatalf("events while paused: %v", events)
		}
	}
	after := s.Snapshot()

	if !reflect.DeepEqual(before.Entities, after.Entities) {
		t.Fatal("entities moved while paused")
	}
	if before.Ship != after.Ship {
		t.Fatalf("ship changed while paused: %+v → %+v", before.Ship, after.Ship)
	}
	if s.spawner.SaucerCountdown() != saucerLeft {
		t.Fatal("saucer countdown advanced while paused")
	}
	if p.Traveled != 0 {
		t.Fatal("projectile travelled while paused")
	}
	if before.Score != after.Score || before.Fired != after.Fired {
		t.Fatal("score changed while paused")
	}
	if after.PauseRemaining >= before.PauseRemaining {
		t.Fatal("pause countdown did not advance")
	}
}

func TestProjectileSplitsAsteroid(t *testing.T) {
	s := newTestSession(t)
	placeAsteroid(s, 100, 100, 4)
	placeProjectile(s, 100, 100, 30)

	events := s.Advance(tickDT, Intents{})

	ev, ok := hasEvent(events, EventAsteroidDestroyed)
	if !ok {
		t.Fatalf("no asteroid-destroyed event in %v", events)
	}
	if ev.Tier != 4 || ev.X != 100 || ev.Y != 100 {
		t.Fatalf("event: %+v", ev)
	}
	if s.score.Score != 25 {
		t.Fatalf("score: got %d, want 25", s.score.Score)
	}
	if s.score.Fired != 1 || s.score.Hit != 1 {
		t.Fatalf("shots: fired %d hit %d", s.score.Fired, s.score.Hit)
	}
	if len(s.store.Projectiles) != 0 {
		t.Fatal("projectile not removed")
	}

	var children int
	maxStep := s.cfg.Asteroid.Speed*tickDT + 1e-9
	for _, a := range s.store.Asteroids {
		if a.Tier == 4 {
			t.Fatal("parent asteroid not removed")
		}
		if a.Tier == 3 {
			children++
			if math.Hypot(a.X-100, a.Y-100) > maxStep {
				t.Errorf("child at (%f,%f) did not start at the parent", a.X, a.Y)
			}
		}
	}
	if children != 2 {
		t.Fatalf("children: got %d, want 2", children)
	}
	if s.Level() != 1 {
		t.Fatalf("level changed to %d", s.Level())
	}
}

func TestLastAsteroidCompletesLevel(t *testing.T) {
	s := newTestSession(t)
	placeAsteroid(s, 100, 100, 1)
	placeProjectile(s, 100, 100, 0)
	s.store.Saucers = append(s.store.Saucers,
		object.NewSaucerAtEdge(800, 600, s.cfg.Saucer.Variants[0], s.cfg.Saucer, s.rng))
	s.store.Ship.X = 250

	events := s.Advance(tickDT, Intents{})

	ev, ok := hasEvent(events, EventLevelComplete)
	if !ok {
		t.Fatalf("no level-complete event in %v", events)
	}
	if ev.Level != 2 || s.Level() != 2 {
		t.Fatalf("level: event %d, session %d", ev.Level, s.Level())
	}
	if s.score.Score != 100 {
		t.Fatalf("score: got %d, want 100", s.score.Score)
	}
	if s.store.Ship.Lives != 3 {
		t.Fatalf("lives: got %d, want 3", s.store.Ship.Lives)
	}
	if len(s.store.Asteroids) != 5 {
		t.Fatalf("asteroids: got %d, want 5", len(s.store.Asteroids))
	}
	for _, a := range s.store.Asteroids {
		if a.Tier != s.cfg.Asteroid.MaxTier {
			t.Errorf("wave tier %d", a.Tier)
		}
	}
	if len(s.store.Saucers) != 0 || len(s.store.Projectiles) != 0 {
		t.Fatal("level reset left saucers or projectiles")
	}
	if s.store.Ship.X == 400 {
		t.Fatal("level reset moved the ship")
	}
}

func TestGameOverAfterLastLife(t *testing.T) {
	s := newTestSession(t)
	placeAsteroid(s, 400, 300, 3)
	sentinel := object.NewAsteroid(100, 100, 4, 0, s.cfg.Asteroid, s.rng)
	s.store.Asteroids = append(s.store.Asteroids, sentinel)
	s.store.Ship.Lives = 1
	s.score = Scoreboard{Score: 1000, Fired: 4, Hit: 3}

	s.Advance(tickDT, Intents{})
	if s.store.Ship.Lives != 0 || s.Phase() != PhasePaused {
		t.Fatalf("lives %d phase %s", s.store.Ship.Lives, s.Phase())
	}

	events := runUntilPhaseChange(t, s, PhasePaused)
	ev, ok := hasEvent(events, EventGameOver)
	if !ok {
		t.Fatalf("no game-over event in %v", events)
	}
	if ev.FinalScore != 1750 {
		t.Fatalf("final score: got %d, want 1750", ev.FinalScore)
	}
	if s.Phase() != PhaseGameOver {
		t.Fatalf("phase: %s", s.Phase())
	}
	if !s.store.Ship.Intangible {
		t.Fatal("ship was reset after game over")
	}
	if snap := s.Snapshot(); snap.FinalScore != 1750 {
		t.Fatalf("snapshot final score %d", snap.FinalScore)
	}

	tick := s.tick
	if events := s.Advance(tickDT, Intents{Fire: true, Thrust: true}); len(events) != 0 {
		t.Fatalf("events after game over: %v", events)
	}
	if len(s.store.Projectiles) != 0 {
		t.Fatal("fired after game over")
	}
	if s.tick != tick+1 {
		t.Fatal("tick counter stopped")
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	s := newTestSession(t)
	s.ToggleMute()
	placeAsteroid(s, 400, 300, 3)
	s.store.Ship.Lives = 1
	s.score.Add(500)
	s.Advance(tickDT, Intents{})
	runUntilPhaseChange(t, s, PhasePaused)

	s.Restart()
	snap := s.Snapshot()
	if snap.Phase != PhaseActive || snap.Level != 1 || snap.Score != 0 || snap.Ship.Lives != 3 {
		t.Fatalf("restart state: %+v", snap)
	}
	if snap.Count(object.KindAsteroid) != 5 {
		t.Fatalf("asteroids after restart: %d", snap.Count(object.KindAsteroid))
	}
	if !snap.Muted {
		t.Fatal("restart dropped the mute setting")
	}
}

func TestFireAndMiss(t *testing.T) {
	s := newTestSession(t)
	placeAsteroid(s, 100, 300, 1)

	events := s.Advance(tickDT, Intents{Fire: true})
	if _, ok := hasEvent(events, EventShotFired); !ok {
		t.Fatalf("no shot-fired event in %v", events)
	}
	if len(s.store.Projectiles) != 1 {
		t.Fatalf("projectiles: %d", len(s.store.Projectiles))
	}
	if s.score.Fired != 0 {
		t.Fatal("shot counted before it resolved")
	}

	limit := int(s.cfg.Projectile.Range/s.cfg.Projectile.Speed/tickDT) + 5
	for i := 0; i < limit && len(s.store.Projectiles) > 0; i++ {
		s.Advance(tickDT, Intents{})
	}
	if len(s.store.Projectiles) != 0 {
		t.Fatal("projectile never expired")
	}
	if s.score.Fired != 1 || s.score.Hit != 0 {
		t.Fatalf("shots: fired %d hit %d", s.score.Fired, s.score.Hit)
	}
	if s.score.Accuracy() != 0 {
		t.Fatalf("accuracy %f", s.score.Accuracy())
	}
}

func TestScoreAccessorReportsAccuracy(t *testing.T) {
	s := newTestSession(t)
	s.score.Add(200)
	s.score.RecordShot(true)
	s.score.RecordShot(false)

	if got := s.Score().Accuracy(); got != 0.5 {
		t.Fatalf("Score().Accuracy(): got %f, want 0.5", got)
	}
	if got := s.Score().FinalScore(); got != 300 {
		t.Fatalf("Score().FinalScore(): got %d, want 300", got)
	}
	if snap := s.Snapshot(); snap.Accuracy != s.Score().Accuracy() {
		t.Fatalf("snapshot accuracy %f differs from scoreboard", snap.Accuracy)
	}
}

func TestSnapshotCopiesEntityDetails(t *testing.T) {
	s := newTestSession(t)
	a := placeAsteroid(s, 120, 80, 2)
	placeProjectile(s, 300, 300, 45)
	variant := s.cfg.Saucer.Variants[0]
	s.store.SpawnSaucer(object.NewSaucerAtEdge(s.cfg.Field.Width, s.cfg.Field.Height, variant, s.cfg.Saucer, s.rng))
	s.store.Flush()

	dead := placeProjectile(s, 10, 10, 0)
	dead.Kill()

	snap := s.Snapshot()
	if len(snap.Entities) != 3 {
		t.Fatalf("entities: got %d, want 3", len(snap.Entities))
	}
	want := []object.Kind{object.KindAsteroid, object.KindSaucer, object.KindProjectile}
	for i, e := range snap.Entities {
		if e.Kind != want[i] {
			t.Fatalf("entity %d is %s, want %s", i, e.Kind, want[i])
		}
	}
	if e := snap.Entities[0]; e.Tier != 2 || e.X != 120 || e.Y != 80 || e.Extent != a.Extent() {
		t.Errorf("asteroid view %+v", e)
	}
	if e := snap.Entities[1]; e.Points != variant.Points {
		t.Errorf("saucer points %d, want %d", e.Points, variant.Points)
	}
	if e := snap.Entities[2]; e.Angle != 45 || e.X != 300 {
		t.Errorf("projectile view %+v", e)
	}
}

func TestThrustEventsOnEdges(t *testing.T) {
	s := newTestSession(t)

	count := func(events []Event, kind EventKind) int {
		n := 0
		for _, e := range events {
			if e.Kind == kind {
				n++
			}
		}
		return n
	}

	if n := count(s.Advance(tickDT, Intents{Thrust: true}), EventThrustStarted); n != 1 {
		t.Fatalf("thrust-started on press: %d", n)
	}
	if n := count(s.Advance(tickDT, Intents{Thrust: true}), EventThrustStarted); n != 0 {
		t.Fatalf("thrust-started while held: %d", n)
	}
	if n := count(s.Advance(tickDT, Intents{}), EventThrustStopped); n != 1 {
		t.Fatalf("thrust-stopped on release: %d", n)
	}
}

func TestShipWrapsOncePerCrossing(t *testing.T) {
	s := newTestSession(t)
	placeAsteroid(s, 400, 550, 1)
	ship := s.store.Ship
	ship.X, ship.VX = 812, 60

	wraps := 0
	for i := 0; i < 30; i++ {
		for _, e := range s.Advance(tickDT, Intents{}) {
			if e.Kind == EventShipWrapped {
				wraps++
			}
		}
	}
	if wraps != 1 {
		t.Fatalf("wrap events: got %d, want 1", wraps)
	}
	if ship.X > 100 {
		t.Fatalf("ship did not wrap to the left edge: x=%f", ship.X)
	}
}

func TestMuteToggle(t *testing.T) {
	s := newTestSession(t)

	ev, ok := hasEvent(s.Advance(tickDT, Intents{ToggleMute: true}), EventMuteChanged)
	if !ok || !ev.Muted || !s.Settings().Muted {
		t.Fatalf("first toggle: event %+v ok=%t", ev, ok)
	}
	ev, ok = hasEvent(s.Advance(tickDT, Intents{ToggleMute: true}), EventMuteChanged)
	if !ok || ev.Muted || s.Settings().Muted {
		t.Fatalf("second toggle: event %+v ok=%t", ev, ok)
	}
}

func TestMuteToggleWorksAfterGameOver(t *testing.T) {
	s := newTestSession(t)
	s.pause.Finish()

	if _, ok := hasEvent(s.Advance(tickDT, Intents{ToggleMute: true}), EventMuteChanged); !ok {
		t.Fatal("mute toggle ignored after game over")
	}
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 600; i++ {
		in := randomIntents(rng)
		a.Advance(tickDT, in)
		b.Advance(tickDT, in)
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Fatal("sessions with the same seed diverged")
	}
}

func TestScoreMonotonicAndAccuracyBounded(t *testing.T) {
	s := newTestSession(t)
	rng := rand.New(rand.NewSource(3))

	last := 0
	for i := 0; i < 5000; i++ {
		s.Advance(tickDT, randomIntents(rng))
		snap := s.Snapshot()
		if snap.Score < last {
			t.Fatalf("tick %d: score dropped %d → %d", i, last, snap.Score)
		}
		last = snap.Score
		if snap.Accuracy < 0 || snap.Accuracy > 1 {
			t.Fatalf("tick %d: accuracy %f", i, snap.Accuracy)
		}
		if snap.Fired == 0 && snap.Accuracy != 0 {
			t.Fatalf("tick %d: accuracy %f without shots", i, snap.Accuracy)
		}
		if snap.Ship.Lives < 0 {
			t.Fatalf("tick %d: lives %d", i, snap.Ship.Lives)
		}
		for _, e := range snap.Entities {
			if e.Kind == object.KindAsteroid && (e.Tier < 1 || e.Tier > s.cfg.Asteroid.MaxTier) {
				t.Fatalf("tick %d: asteroid tier %d", i, e.Tier)
			}
		}
		if snap.Phase == PhaseGameOver {
			s.Restart()
			last = 0
		}
	}
}

func TestIntentsMergeKeepsEdges(t *testing.T) {
	merged := Intents{Fire: true}.Merge(Intents{Thrust: true, ToggleMute: true})
	want := Intents{Thrust: true, Fire: true, ToggleMute: true}
	if merged != want {
		t.Fatalf("got %+v, want %+v", merged, want)
	}
	if held := (Intents{Thrust: true}).Merge(Intents{}); held.Thrust {
		t.Fatal("held intent survived release")
	}
}

func randomIntents(rng *rand.Rand) Intents {
	return Intents{
		Thrust:      rng.Intn(3) == 0,
		RotateLeft:  rng.Intn(4) == 0,
		RotateRight: rng.Intn(4) == 0,
		Fire:        rng.Intn(8) == 0,
	}
}
