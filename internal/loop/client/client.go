package client

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rockfield/internal/draw"
	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/input"
	"github.com/tomz197/rockfield/internal/leaderboard"
	"github.com/tomz197/rockfield/internal/loop/config"
	"github.com/tomz197/rockfield/internal/loop/server"
)

// Leaderboard is the read side of the score table shown on game over.
type Leaderboard interface {
	Top(n int) []leaderboard.Entry
}

// Client handles rendering and input for a single terminal.
type Client struct {
	server       server.GameServer
	sub          *server.Subscription
	state        *ClientState
	canvas       *draw.Canvas
	renderer     *draw.Renderer
	fx           *draw.Effects
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	board        Leaderboard
	player       string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Leaderboard  Leaderboard // Optional
	Player       string
	Seed         int64 // Particle randomness
	Logger       *log.Logger
}

// NewClient creates a client attached to gs, reading keys from r and
// drawing to w.
func NewClient(gs server.GameServer, r io.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	player := opts.Player
	if player == "" {
		player = config.PlayerName
	}

	state := NewClientState()
	state.Snapshot = gs.Snapshot()

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, state.Snapshot.Width, state.Snapshot.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		sub:          gs.Subscribe(),
		state:        state,
		canvas:       canvas,
		renderer:     draw.NewRenderer(canvas),
		fx:           draw.NewEffects(opts.Seed),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		board:        opts.Leaderboard,
		player:       player,
		termSizeFunc: termSizeFunc,
		logger:       logger.WithPrefix("client"),
	}
}

// Run starts the client loop. Blocks until the player quits, the input
// ends or the server shuts down.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.Unsubscribe(c.sub)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		c.state.Snapshot = c.server.Snapshot()
		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateGameOver:
			c.updateGameOverState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads keys and forwards intents while playing.
func (c *Client) processInput() {
	c.state.Frame = c.inputStream.Read()
	f := c.state.Frame

	since := time.Since(c.lastInput).Seconds()
	switch {
	case len(f.Pressed) > 0:
		c.lastInput = time.Now()
		c.state.isInactive = false
	case since > config.InactivityDisconnectUser:
		c.logger.Info("disconnecting inactive player", "player", c.player)
		c.state.Running = false
	case since > config.InactivityWarnUser:
		c.state.isInactive = true
	}

	if f.Quit {
		c.state.Running = false
	}

	// Mute works on every screen; the rest only steers a live game
	switch c.state.GameState {
	case GameStatePlaying:
		c.server.Send(f.Intents)
	default:
		if f.Intents.ToggleMute {
			c.server.Send(game.Intents{ToggleMute: true})
		}
	}
}

// processServerEvents drains the subscription.
func (c *Client) processServerEvents() {
	for {
		select {
		case ev, ok := <-c.sub.Events:
			if !ok {
				c.state.Running = false
				return
			}
			switch ev.Type {
			case server.EventGame:
				c.fx.HandleEvent(ev.Game)
			case server.EventRanked:
				c.state.Rank = ev.Rank
				c.state.Ranked = true
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen follows the terminal size. A changed render area wipes the
// whole terminal, since cells outside the canvas are never repainted.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize caps the render area and centres it in the terminal.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

func (c *Client) updateStartState() {
	f := c.state.Frame
	if f.Intents.Fire || f.Restart {
		c.startGame()
	}
}

func (c *Client) updatePlayingState() {
	snap := c.state.Snapshot
	if c.state.awaitingRestart {
		if snap.Phase != game.PhaseGameOver {
			c.state.awaitingRestart = false
		}
	} else if snap.Phase == game.PhaseGameOver {
		c.state.GameState = GameStateGameOver
		return
	}

	if snap.Phase == game.PhaseActive {
		c.fx.Trail(snap.Ship)
	}
	c.fx.Update(c.state.delta.Seconds())
}

func (c *Client) updateGameOverState() {
	if c.state.Frame.Restart {
		c.startGame()
	}
}

// startGame asks the server for a fresh game.
func (c *Client) startGame() {
	if c.state.GameState == GameStateGameOver {
		c.state.awaitingRestart = true
	}
	c.server.Restart()
	c.fx.Clear()
	c.state.Rank = 0
	c.state.Ranked = false
	c.state.GameState = GameStatePlaying
	c.logger.Debug("game started", "player", c.player)
}

func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
