package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable simulation parameter.
// Distances are field units, times are seconds, angles are degrees.
type Config struct {
	Field         FieldConfig      `yaml:"field"`
	Ship          ShipConfig       `yaml:"ship"`
	Projectile    ProjectileConfig `yaml:"projectile"`
	Asteroid      AsteroidConfig   `yaml:"asteroid"`
	Saucer        SaucerConfig     `yaml:"saucer"`
	PauseDuration float64          `yaml:"pauseDuration"` // Seconds frozen after the ship is hit
	TickRate      int              `yaml:"tickRate"`      // Simulation ticks per second
}

// FieldConfig is the size of the toroidal play field.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ShipConfig tunes the player ship.
type ShipConfig struct {
	Lives         int     `yaml:"lives"`
	Thrust        float64 `yaml:"thrust"`        // Acceleration, units/s²
	MaxSpeed      float64 `yaml:"maxSpeed"`      // Velocity magnitude cap
	RotateSpeed   float64 `yaml:"rotateSpeed"`   // Degrees per second
	Drag          float64 `yaml:"drag"`          // Velocity kept per second when coasting (1 = none)
	Size          float64 `yaml:"size"`          // Bounding box edge
	RespawnJitter float64 `yaml:"respawnJitter"` // Max heading offset after a respawn
}

// ProjectileConfig tunes shots.
type ProjectileConfig struct {
	Speed float64 `yaml:"speed"`
	Range float64 `yaml:"range"` // Distance travelled before the shot expires
	Size  float64 `yaml:"size"`
}

// AsteroidConfig tunes asteroid waves and splitting.
type AsteroidConfig struct {
	SpawnCount       int     `yaml:"spawnCount"`       // Asteroids per wave
	SpawnAttempts    int     `yaml:"spawnAttempts"`    // Position resamples before giving up on the safe radius
	MinSpawnDistance float64 `yaml:"minSpawnDistance"` // Safe radius around the ship
	RespawnInterval  float64 `yaml:"respawnInterval"`  // Seconds between mid-wave additions; .inf disables
	Speed            float64 `yaml:"speed"`
	DriftMax         float64 `yaml:"driftMax"` // Max angular drift, degrees/s
	Size             float64 `yaml:"size"`     // Bounding box edge at scale 1
	Scale            float64 `yaml:"scale"`    // Scale per tier
	MaxTier          int     `yaml:"maxTier"`
	MaxSplitAngle    float64 `yaml:"maxSplitAngle"`
	PointsBase       int     `yaml:"pointsBase"` // Value of a tier-t asteroid is PointsBase / t
}

// SaucerVariant pairs a point value with its visual scale.
type SaucerVariant struct {
	Points int     `yaml:"points"`
	Scale  float64 `yaml:"scale"`
}

// SaucerConfig tunes bonus saucers.
type SaucerConfig struct {
	Speed    float64         `yaml:"speed"`
	Size     float64         `yaml:"size"`
	TurnMin  float64         `yaml:"turnMin"` // Direction change interval bounds
	TurnMax  float64         `yaml:"turnMax"`
	SpawnMin float64         `yaml:"spawnMin"` // Spawn interval bounds
	SpawnMax float64         `yaml:"spawnMax"`
	Variants []SaucerVariant `yaml:"variants"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Field: FieldConfig{Width: 800, Height: 600},
		Ship: ShipConfig{
			Lives:         3,
			Thrust:        720,
			MaxSpeed:      360,
			RotateSpeed:   300,
			Drag:          1.0,
			Size:          24,
			RespawnJitter: 15,
		},
		Projectile: ProjectileConfig{
			Speed: 480,
			Range: 600,
			Size:  6,
		},
		Asteroid: AsteroidConfig{
			SpawnCount:       5,
			SpawnAttempts:    64,
			MinSpawnDistance: 150,
			RespawnInterval:  math.Inf(1),
			Speed:            60,
			DriftMax:         90,
			Size:             96,
			Scale:            0.25,
			MaxTier:          4,
			MaxSplitAngle:    30,
			PointsBase:       100,
		},
		Saucer: SaucerConfig{
			Speed:    90,
			Size:     40,
			TurnMin:  1,
			TurnMax:  3,
			SpawnMin: 2,
			SpawnMax: 35,
			Variants: []SaucerVariant{
				{Points: 100, Scale: 1.0},
				{Points: 200, Scale: 0.6},
			},
		},
		PauseDuration: 3,
		TickRate:      60,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// AsteroidExtent returns the bounding box edge of an asteroid of the given tier.
func (c Config) AsteroidExtent(tier int) float64 {
	return c.Asteroid.Size * c.Asteroid.Scale * float64(tier)
}

// Validate rejects configurations the simulation cannot run with.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"field.width", c.Field.Width},
		{"field.height", c.Field.Height},
		{"ship.thrust", c.Ship.Thrust},
		{"ship.maxSpeed", c.Ship.MaxSpeed},
		{"ship.rotateSpeed", c.Ship.RotateSpeed},
		{"ship.size", c.Ship.Size},
		{"projectile.speed", c.Projectile.Speed},
		{"projectile.range", c.Projectile.Range},
		{"projectile.size", c.Projectile.Size},
		{"asteroid.speed", c.Asteroid.Speed},
		{"asteroid.size", c.Asteroid.Size},
		{"asteroid.scale", c.Asteroid.Scale},
		{"saucer.speed", c.Saucer.Speed},
		{"saucer.size", c.Saucer.Size},
		{"saucer.turnMin", c.Saucer.TurnMin},
		{"saucer.turnMax", c.Saucer.TurnMax},
		{"saucer.spawnMin", c.Saucer.SpawnMin},
		{"saucer.spawnMax", c.Saucer.SpawnMax},
		{"pauseDuration", c.PauseDuration},
	}
	for _, p := range positive {
		// NaN fails this comparison too
		if !(p.value > 0) || math.IsInf(p.value, 1) {
			return fmt.Errorf("%w: %s must be finite and > 0, got %v", ErrInvalid, p.name, p.value)
		}
	}
	// .inf turns timed respawns off
	if !(c.Asteroid.RespawnInterval > 0) {
		return fmt.Errorf("%w: asteroid.respawnInterval must be > 0, got %v", ErrInvalid, c.Asteroid.RespawnInterval)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"ship.respawnJitter", c.Ship.RespawnJitter},
		{"asteroid.minSpawnDistance", c.Asteroid.MinSpawnDistance},
		{"asteroid.driftMax", c.Asteroid.DriftMax},
		{"asteroid.maxSplitAngle", c.Asteroid.MaxSplitAngle},
	}
	for _, p := range nonNegative {
		if !(p.value >= 0) || math.IsInf(p.value, 1) {
			return fmt.Errorf("%w: %s must be finite and >= 0, got %v", ErrInvalid, p.name, p.value)
		}
	}

	if c.Ship.Lives < 1 {
		return fmt.Errorf("%w: ship.lives must be >= 1, got %d", ErrInvalid, c.Ship.Lives)
	}
	if !(c.Ship.Drag > 0 && c.Ship.Drag <= 1) {
		return fmt.Errorf("%w: ship.drag must be in (0, 1], got %v", ErrInvalid, c.Ship.Drag)
	}
	if c.Asteroid.SpawnCount < 1 {
		return fmt.Errorf("%w: asteroid.spawnCount must be >= 1, got %d", ErrInvalid, c.Asteroid.SpawnCount)
	}
	if c.Asteroid.SpawnAttempts < 1 {
		return fmt.Errorf("%w: asteroid.spawnAttempts must be >= 1, got %d", ErrInvalid, c.Asteroid.SpawnAttempts)
	}
	if c.Asteroid.MaxTier < 1 {
		return fmt.Errorf("%w: asteroid.maxTier must be >= 1, got %d", ErrInvalid, c.Asteroid.MaxTier)
	}
	if c.Asteroid.PointsBase < 1 {
		return fmt.Errorf("%w: asteroid.pointsBase must be >= 1, got %d", ErrInvalid, c.Asteroid.PointsBase)
	}
	if c.Saucer.TurnMin > c.Saucer.TurnMax {
		return fmt.Errorf("%w: saucer.turnMin %v exceeds saucer.turnMax %v", ErrInvalid, c.Saucer.TurnMin, c.Saucer.TurnMax)
	}
	if c.Saucer.SpawnMin > c.Saucer.SpawnMax {
		return fmt.Errorf("%w: saucer.spawnMin %v exceeds saucer.spawnMax %v", ErrInvalid, c.Saucer.SpawnMin, c.Saucer.SpawnMax)
	}
	if len(c.Saucer.Variants) == 0 {
		return fmt.Errorf("%w: saucer.variants cannot be empty", ErrInvalid)
	}
	for i, v := range c.Saucer.Variants {
		if v.Points < 1 || !(v.Scale > 0) || math.IsInf(v.Scale, 1) {
			return fmt.Errorf("%w: saucer.variants[%d] needs points >= 1 and a finite scale > 0", ErrInvalid, i)
		}
	}
	if c.TickRate < 1 {
		return fmt.Errorf("%w: tickRate must be >= 1, got %d", ErrInvalid, c.TickRate)
	}
	return nil
}
