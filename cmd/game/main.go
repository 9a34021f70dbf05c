package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/speaker"
	"golang.org/x/term"

	"github.com/tomz197/rockfield/internal/audio"
	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/leaderboard"
	"github.com/tomz197/rockfield/internal/loop"
	"github.com/tomz197/rockfield/internal/loop/server"
)

const appName = "rockfield"

func main() {
	// The terminal belongs to the game; logs go to a file or nowhere.
	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	board, err := leaderboard.Open(appName, leaderboard.DefaultLimit, logger)
	if board == nil {
		logger.Warn("leaderboard disabled", "err", err)
	}

	settings := game.SessionConfig{Muted: config.GetEnv("ASTEROIDS_MUTED", "") != ""}
	var sinks []server.EventSink
	if player, err := startAudio(settings.Muted, logger); err != nil {
		logger.Warn("audio disabled", "err", err)
	} else {
		sinks = append(sinks, player)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	opts := loop.Options{
		Config:   cfg,
		Seed:     time.Now().UnixNano(),
		Settings: settings,
		Player:   config.GetEnv("ASTEROIDS_PLAYER", config.GetEnv("USER", "")),
		Sinks:    sinks,
		Logger:   logger,
	}
	if board != nil {
		opts.Scores = board
	}

	if err := loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, opts); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*log.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}
	if path := config.GetEnv("ASTEROIDS_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          appName,
	})
	if lvl, err := log.ParseLevel(config.GetEnv("ASTEROIDS_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closeFn, nil
}

func loadConfig() (config.Config, error) {
	path := config.GetEnv("ASTEROIDS_CONFIG", "")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// startAudio opens the speaker and starts streaming the event player.
func startAudio(muted bool, logger *log.Logger) (*audio.Player, error) {
	rate := audio.DefaultSampleRate
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to open speaker: %w", err)
	}
	p := audio.NewPlayer(rate, 1, logger)
	if muted {
		p.HandleEvent(game.Event{Kind: game.EventMuteChanged, Muted: true})
	}
	speaker.Play(p)
	return p, nil
}
