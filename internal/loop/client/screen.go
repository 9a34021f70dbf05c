package client

import (
	"fmt"
	"time"

	"github.com/tomz197/rockfield/internal/draw"
	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/loop/config"
)

var titleArt = []string{
	` ___  ___   ___ _  _____ ___ ___ _    ___  `,
	`| _ \/ _ \ / __| |/ / __|_ _| __| |  |   \ `,
	`|   / (_) | (__| ' <| _| | || _|| |__| |) |`,
	`|_|_\\___/ \___|_|\_\_| |___|___|____|___/ `,
}

var gameOverArt = []string{
	`  ___   _   __  __ ___    _____   _____ ___  `,
	` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.state.Snapshot

	// On screen, phase or inactivity transitions, do a full terminal clear
	// so overlays from the previous screen don't persist.
	if c.state.GameState != c.state.prevGameState ||
		snap.Phase != c.state.prevPhase ||
		c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.prevPhase = snap.Phase
		c.state.wasInactive = c.state.isInactive
	}

	c.renderer.Draw(snap)
	if c.state.GameState == GameStatePlaying {
		c.fx.Draw(c.renderer)
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	c.drawUI(snap)
	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *game.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap)
		if snap.Phase == game.PhasePaused {
			c.drawPausedOverlay(centerX, centerY, snap)
		}
	case GameStateGameOver:
		c.drawGameOverScreen(centerX, centerY, snap)
	}
}

// writeCentered writes s centered on centerX and marks the cells dirty so
// the canvas repaints them next frame.
func (c *Client) writeCentered(centerX, row int, s string) {
	c.writeCenteredColor(centerX, row, "", s)
}

func (c *Client) writeCenteredColor(centerX, row int, color, s string) {
	col := centerX - len(s)/2
	if color != "" {
		c.chunkWriter.WriteAt(col, row, color+s+draw.ColorReset)
	} else {
		c.chunkWriter.WriteAt(col, row, s)
	}
	c.canvas.MarkTextDirty(col, row, len(s))
}

func (c *Client) drawArt(centerX, top int, art []string) {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteAt(centerX-width/2, top+i, line)
		c.canvas.MarkTextDirty(centerX-width/2, top+i, width)
	}
}

func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")
	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

func (c *Client) drawStartScreen(centerX, centerY int) {
	top := centerY - 8
	c.drawArt(centerX, top, titleArt)

	row := top + len(titleArt) + 1
	c.writeCentered(centerX, row, "~ Clear the field. Mind the saucers. ~")

	row += 2
	c.writeCentered(centerX, row, "Controls")
	controls := []string{
		"W / Up  . . . . Thrust",
		"A D / < >  . .  Rotate",
		"SPACE  . . . . . Shoot",
		"M  . . . . . . .  Mute",
		"Q  . . . . . . .  Quit",
	}
	for i, line := range controls {
		c.writeCentered(centerX, row+1+i, line)
	}

	row += len(controls) + 2
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row, ">>  Press SPACE to Start  <<")
	} else {
		c.writeCentered(centerX, row, "                            ")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *game.Snapshot) {
	cw := c.chunkWriter

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", snap.Score))

	lives := fmt.Sprintf("Lives: %-2d", snap.Ship.Lives)
	cw.WriteAt(termWidth-len(lives)-1, 1, lives)

	cw.WriteAt(2, termHeight, fmt.Sprintf("Level: %-3d Accuracy: %5.1f%%", snap.Level, snap.Accuracy*100))

	muted := "     "
	if snap.Muted {
		muted = draw.ColorDim + "MUTED" + draw.ColorReset
	}
	cw.WriteAt(termWidth-6, termHeight, muted)
}

func (c *Client) drawPausedOverlay(centerX, centerY int, snap *game.Snapshot) {
	c.writeCenteredColor(centerX, centerY-2, draw.ColorRed, "SHIP DESTROYED")
	var msg string
	if snap.Ship.Lives > 0 {
		msg = fmt.Sprintf("Respawning in %.1f seconds", snap.PauseRemaining)
	} else {
		msg = "That was your last ship"
	}
	c.writeCentered(centerX, centerY+2, msg)
}

func (c *Client) drawGameOverScreen(centerX, centerY int, snap *game.Snapshot) {
	top := centerY - 9
	c.drawArt(centerX, top, gameOverArt)

	row := top + len(gameOverArt) + 1
	c.writeCentered(centerX, row, fmt.Sprintf("Final score: %d", snap.FinalScore))
	c.writeCentered(centerX, row+1, fmt.Sprintf("Score %d  Accuracy %.1f%%  Level %d",
		snap.Score, snap.Accuracy*100, snap.Level))

	row += 3
	switch {
	case !c.state.Ranked:
	case c.state.Rank > 0:
		c.writeCenteredColor(centerX, row, draw.ColorBrightCyan, fmt.Sprintf("New high score! Rank #%d", c.state.Rank))
	default:
		c.writeCentered(centerX, row, "Not on the leaderboard this time")
	}

	if c.board != nil {
		row += 2
		for i, e := range c.board.Top(config.LeaderboardRows) {
			line := fmt.Sprintf("%2d. %-16s %8d  L%-3d", i+1, e.Name, e.Score, e.Level)
			if c.state.Ranked && i+1 == c.state.Rank {
				line = draw.ColorBold + line + draw.ColorReset
			}
			c.chunkWriter.WriteAt(centerX-17, row+i, line)
			c.canvas.MarkTextDirty(centerX-17, row+i, 34)
		}
		row += config.LeaderboardRows
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row+1, ">>  Press R to Restart  <<")
	} else {
		c.writeCentered(centerX, row+1, "                          ")
	}
}

func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")
	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
