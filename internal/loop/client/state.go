package client

import (
	"time"

	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/input"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active or paused gameplay
	GameStateGameOver                  // Final score and leaderboard
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection state.
type ClientState struct {
	Frame     input.Frame
	GameState GameState
	Snapshot  *game.Snapshot
	Rank      int  // Leaderboard position of the last game, 0 if none
	Ranked    bool // Rank has arrived
	Running   bool

	delta           time.Duration
	shutdownTimer   float64
	isInactive      bool
	awaitingRestart bool // Restart requested; ignore stale game-over snapshots

	prevGameState GameState
	prevPhase     game.Phase
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
