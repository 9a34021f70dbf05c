// Package config centralizes host and client timing parameters.
// Simulation tuning lives in internal/config.
package config

import "time"

// Render area limits; larger terminals get a centered, bordered field.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Event delivery
const (
	EventQueueSize = 256 // Pending event batches per sink before drops
	InputQueueSize = 64  // Pending intent frames before drops
)

// Leaderboard display
const (
	LeaderboardRows = 5
	PlayerName      = "pilot" // Used when the host supplies no name
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
