package object

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/physics"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestShipMaxSpeedClamp(t *testing.T) {
	cfg := config.Default()
	s := NewShip(400, 300, cfg.Ship)

	for i := 0; i < 600; i++ {
		s.Steer(true, 1.0/60)
		s.Move(1.0 / 60)
	}
	if speed := math.Hypot(s.VX, s.VY); speed > cfg.Ship.MaxSpeed+1e-6 {
		t.Fatalf("speed %f exceeds max %f", speed, cfg.Ship.MaxSpeed)
	}
}

func TestShipThrustFollowsHeading(t *testing.T) {
	cfg := config.Default()
	s := NewShip(400, 300, cfg.Ship)

	s.Steer(true, 0.1)
	if s.VY <= 0 || math.Abs(s.VX) > 1e-9 {
		t.Fatalf("thrust at angle 0 should push up: VX=%f VY=%f", s.VX, s.VY)
	}
	if !s.Thrusting {
		t.Error("Thrusting flag not set")
	}
	s.Steer(false, 0.1)
	if s.Thrusting {
		t.Error("Thrusting flag not cleared")
	}
}

func TestShipRotateStaysNormalized(t *testing.T) {
	cfg := config.Default()
	s := NewShip(0, 0, cfg.Ship)
	s.Rotate(-1, 0.1) // clockwise from 0 → negative, wraps to [0, 360)
	if s.Angle < 0 || s.Angle >= 360 {
		t.Fatalf("angle %f out of [0, 360)", s.Angle)
	}
	want := 360 - cfg.Ship.RotateSpeed*0.1
	if math.Abs(s.Angle-want) > 1e-9 {
		t.Fatalf("angle: got %f, want %f", s.Angle, want)
	}
}

func TestShipDragSlowsWhenCoasting(t *testing.T) {
	cfg := config.Default()
	cfg.Ship.Drag = 0.5
	s := NewShip(0, 0, cfg.Ship)
	s.VX = 100
	s.Steer(false, 1)
	if math.Abs(s.VX-50) > 1e-9 {
		t.Fatalf("VX after 1s of 0.5 drag: got %f, want 50", s.VX)
	}
}

func TestShipLoseLifeNeverNegative(t *testing.T) {
	cfg := config.Default()
	cfg.Ship.Lives = 2
	s := NewShip(0, 0, cfg.Ship)

	if s.LoseLife() {
		t.Fatal("first life loss should not be terminal")
	}
	if !s.Intangible {
		t.Fatal("ship should be intangible after losing a life")
	}
	if !s.LoseLife() {
		t.Fatal("second life loss should be terminal")
	}
	if !s.LoseLife() || s.Lives != 0 {
		t.Fatalf("lives went below zero: %d", s.Lives)
	}
}

func TestShipRespawn(t *testing.T) {
	cfg := config.Default()
	s := NewShip(10, 10, cfg.Ship)
	s.VX, s.VY = 50, 50
	s.LoseLife()

	s.Respawn(400, 300, -10)
	if s.X != 400 || s.Y != 300 || s.VX != 0 || s.VY != 0 {
		t.Fatalf("respawn state wrong: %+v", s.Body)
	}
	if s.Intangible {
		t.Fatal("ship still intangible after respawn")
	}
	if math.Abs(s.Angle-350) > 1e-9 {
		t.Fatalf("angle: got %f, want 350", s.Angle)
	}
}

func TestProjectileExpiresAfterRange(t *testing.T) {
	cfg := config.Default()
	p := NewProjectile(0, 0, 0, cfg.Projectile)

	dt := 1.0 / 60
	ticks := 0
	for !p.Expired() {
		p.Move(dt)
		ticks++
		if ticks > 10000 {
			t.Fatal("projectile never expired")
		}
	}
	if p.Traveled <= cfg.Projectile.Range {
		t.Fatalf("expired early at %f of %f", p.Traveled, cfg.Projectile.Range)
	}
	if p.Traveled > cfg.Projectile.Range+cfg.Projectile.Speed*dt {
		t.Fatalf("expired late at %f", p.Traveled)
	}
}

func TestAsteroidScaleAndPointsFromTier(t *testing.T) {
	cfg := config.Default()
	rng := newRand()
	small := NewAsteroid(0, 0, 1, 0, cfg.Asteroid, rng)
	big := NewAsteroid(0, 0, 4, 0, cfg.Asteroid, rng)

	if big.Extent() <= small.Extent() {
		t.Fatalf("tier 4 extent %f not larger than tier 1 extent %f", big.Extent(), small.Extent())
	}
	if got := big.Points(cfg.Asteroid.PointsBase); got != 25 {
		t.Errorf("tier 4 points: got %d, want 25", got)
	}
	if got := small.Points(cfg.Asteroid.PointsBase); got != 100 {
		t.Errorf("tier 1 points: got %d, want 100", got)
	}
	three := NewAsteroid(0, 0, 3, 0, cfg.Asteroid, rng)
	if got := three.Points(cfg.Asteroid.PointsBase); got != 33 {
		t.Errorf("tier 3 points use integer division: got %d, want 33", got)
	}
}

func TestAsteroidSplit(t *testing.T) {
	cfg := config.Default()
	rng := newRand()

	for trial := 0; trial < 50; trial++ {
		parent := NewAsteroid(120, 80, 4, 0, cfg.Asteroid, rng)
		destroyer := rng.Float64() * 360

		children := parent.Split(destroyer, cfg.Asteroid, rng)
		if len(children) != 2 {
			t.Fatalf("got %d children, want 2", len(children))
		}

		base := destroyer + 90
		var above, below int
		for _, c := range children {
			if c.Tier != 3 {
				t.Errorf("child tier %d, want 3", c.Tier)
			}
			if c.X != parent.X || c.Y != parent.Y {
				t.Errorf("child at (%f,%f), want parent position (%f,%f)", c.X, c.Y, parent.X, parent.Y)
			}
			off := c.Angle - base
			if off < -cfg.Asteroid.MaxSplitAngle-1e-9 || off > cfg.Asteroid.MaxSplitAngle+1e-9 {
				t.Errorf("child heading offset %f outside ±%f", off, cfg.Asteroid.MaxSplitAngle)
			}
			if off >= 0 {
				above++
			}
			if off <= 0 {
				below++
			}
		}
		if above < 1 || below < 1 {
			t.Fatalf("children not on opposite sides of %f: %f, %f", base, children[0].Angle, children[1].Angle)
		}
	}
}

func TestAtomicAsteroidDoesNotSplit(t *testing.T) {
	cfg := config.Default()
	rng := newRand()
	a := NewAsteroid(0, 0, 1, 0, cfg.Asteroid, rng)
	if children := a.Split(0, cfg.Asteroid, rng); children != nil {
		t.Fatalf("tier 1 produced %d children", len(children))
	}
}

func TestSaucerSpawnsOnEdgeHeadingInward(t *testing.T) {
	cfg := config.Default()
	rng := newRand()
	const w, h = 800.0, 600.0

	for i := 0; i < 100; i++ {
		s := NewSaucerAtEdge(w, h, cfg.Saucer.Variants[0], cfg.Saucer, rng)
		switch s.Edge {
		case EdgeBottom:
			if s.Y != 0 || s.VY <= 0 {
				t.Fatalf("bottom saucer at y=%f vy=%f", s.Y, s.VY)
			}
		case EdgeTop:
			if s.Y != h || s.VY >= 0 {
				t.Fatalf("top saucer at y=%f vy=%f", s.Y, s.VY)
			}
		case EdgeLeft:
			if s.X != 0 || s.VX <= 0 {
				t.Fatalf("left saucer at x=%f vx=%f", s.X, s.VX)
			}
		case EdgeRight:
			if s.X != w || s.VX >= 0 {
				t.Fatalf("right saucer at x=%f vx=%f", s.X, s.VX)
			}
		}
		if s.Points != cfg.Saucer.Variants[0].Points {
			t.Fatalf("points: got %d, want %d", s.Points, cfg.Saucer.Variants[0].Points)
		}
	}
}

func TestSaucerChangesDirection(t *testing.T) {
	cfg := config.Default()
	rng := newRand()
	s := NewSaucerAtEdge(800, 600, cfg.Saucer.Variants[1], cfg.Saucer, rng)

	startVX, startVY := s.VX, s.VY
	changed := false
	for i := 0; i < int(cfg.Saucer.TurnMax*60)+2; i++ {
		s.Move(1.0 / 60)
		if s.VX != startVX || s.VY != startVY {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("saucer never changed direction within TurnMax")
	}
	if speed := math.Hypot(s.VX, s.VY); math.Abs(speed-cfg.Saucer.Speed) > 1e-6 {
		t.Fatalf("speed after turn %f, want %f", speed, cfg.Saucer.Speed)
	}
}

func TestBodyWrapIn(t *testing.T) {
	b := &Body{X: -20, Y: 300, Size: 10, Scale: 1, Alive: true}
	if !b.WrapIn(800, 600) {
		t.Fatal("expected wrap")
	}
	if got := b.Bounds().MinX; math.Abs(got-800) > 1e-9 {
		t.Fatalf("MinX after wrap %f, want 800", got)
	}
	if b.WrapIn(800, 600) {
		t.Fatal("wrapped twice without moving")
	}
}

func TestEntitiesSatisfyInterfaces(t *testing.T) {
	cfg := config.Default()
	rng := newRand()
	entities := []Entity{
		NewShip(0, 0, cfg.Ship),
		NewAsteroid(0, 0, 2, 0, cfg.Asteroid, rng),
		NewSaucerAtEdge(800, 600, cfg.Saucer.Variants[0], cfg.Saucer, rng),
		NewProjectile(0, 0, 0, cfg.Projectile),
	}
	want := []Kind{KindShip, KindAsteroid, KindSaucer, KindProjectile}
	for i, e := range entities {
		if e.Kind() != want[i] {
			t.Errorf("entity %d kind %s, want %s", i, e.Kind(), want[i])
		}
		if !e.IsAlive() {
			t.Errorf("%s not alive at creation", e.Kind())
		}
		var _ physics.Rect = e.Bounds()
	}
}
