// Package loop runs one game for one terminal: a server ticking the session
// and a client drawing it, joined by event sinks such as audio.
package loop

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/draw"
	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/loop/client"
	"github.com/tomz197/rockfield/internal/loop/server"
)

// Scores is a leaderboard that accepts results and lists the top entries.
type Scores interface {
	server.ScoreSink
	client.Leaderboard
}

// Options configures Run.
type Options struct {
	Config       config.Config
	Seed         int64
	Settings     game.SessionConfig
	Player       string
	Scores       Scores             // Optional
	Sinks        []server.EventSink // Receive every game event, e.g. audio
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
}

// Run plays until the player quits or ctx is cancelled. Keys are read
// from r and frames written to w.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	session, err := game.NewSession(opts.Config, game.Options{
		Seed:     opts.Seed,
		Settings: opts.Settings,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	srvOpts := server.Options{Player: opts.Player, Logger: logger}
	cliOpts := client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Player:       opts.Player,
		Seed:         opts.Seed,
		Logger:       logger,
	}
	if opts.Scores != nil {
		srvOpts.Scores = opts.Scores
		cliOpts.Leaderboard = opts.Scores
	}
	srv := server.New(session, srvOpts)

	for _, sink := range opts.Sinks {
		remove := srv.AddSink(sink)
		defer remove()
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		srv.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	// Cancellation reaches the client as a shutdown notice
	go func() {
		<-ctx.Done()
		srv.Shutdown(0)
	}()

	c := client.NewClient(srv, r, w, cliOpts)
	if err := c.Run(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}
