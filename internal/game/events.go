package game

import "fmt"

// EventKind identifies a discrete game event.
type EventKind int

const (
	EventAsteroidDestroyed EventKind = iota
	EventTargetDestroyed
	EventShipHit
	EventLevelComplete
	EventGameOver
	EventShotFired
	EventThrustStarted
	EventThrustStopped
	EventShipWrapped
	EventMuteChanged
)

var eventNames = [...]string{
	EventAsteroidDestroyed: "asteroid-destroyed",
	EventTargetDestroyed:   "target-destroyed",
	EventShipHit:           "ship-hit",
	EventLevelComplete:     "level-complete",
	EventGameOver:          "game-over",
	EventShotFired:         "shot-fired",
	EventThrustStarted:     "thrust-started",
	EventThrustStopped:     "thrust-stopped",
	EventShipWrapped:       "ship-wrapped",
	EventMuteChanged:       "mute-changed",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is emitted by Session.Advance for audio, FX and UI collaborators.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind       EventKind
	X, Y       float64 // Where it happened
	Tier       int     // AsteroidDestroyed
	Level      int     // LevelComplete: the level being entered
	FinalScore int     // GameOver
	Muted      bool    // MuteChanged
}

func (e Event) String() string {
	switch e.Kind {
	case EventAsteroidDestroyed:
		return fmt.Sprintf("%s tier=%d at (%.0f,%.0f)", e.Kind, e.Tier, e.X, e.Y)
	case EventTargetDestroyed, EventShipHit:
		return fmt.Sprintf("%s at (%.0f,%.0f)", e.Kind, e.X, e.Y)
	case EventLevelComplete:
		return fmt.Sprintf("%s level=%d", e.Kind, e.Level)
	case EventGameOver:
		return fmt.Sprintf("%s score=%d", e.Kind, e.FinalScore)
	case EventMuteChanged:
		return fmt.Sprintf("%s muted=%t", e.Kind, e.Muted)
	default:
		return e.Kind.String()
	}
}
