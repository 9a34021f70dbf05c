package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/draw"
	"github.com/tomz197/rockfield/internal/leaderboard"
	"github.com/tomz197/rockfield/internal/loop"
)

const (
	appName            = "rockfield"
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	shutdownTimeout    = 15 * time.Second
)

// host owns what every SSH session shares.
type host struct {
	cfg    config.Config
	board  *leaderboard.Board
	logger *log.Logger
	ctx    context.Context // Cancelled on shutdown
	games  sync.WaitGroup
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          appName,
	})
	if err := config.LoadEnvFile(config.GetEnv("ASTEROIDS_ENV_FILE", ".env")); err != nil {
		logger.Fatal("failed to load env file", "err", err)
	}

	if lvl, err := log.ParseLevel(config.GetEnv("ASTEROIDS_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	hostAddr := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", hostAddr, "port", port, "hostKeyPath", hostKeyPath)

	cfg := config.Default()
	if path := config.GetEnv("ASTEROIDS_CONFIG", ""); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			logger.Fatal("failed to load config", "path", path, "err", err)
		}
	}

	board, err := leaderboard.Open(appName, leaderboard.DefaultLimit, logger)
	if board == nil {
		logger.Fatal("failed to open leaderboard", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &host{cfg: cfg, board: board, logger: logger, ctx: ctx}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(hostAddr, port)),
		wish.WithMiddleware(
			h.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(hostAddr, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down, notifying players")
	cancel()
	h.waitForGames(shutdownTimeout)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

func (h *host) waitForGames(timeout time.Duration) {
	finished := make(chan struct{})
	go func() {
		h.games.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		h.logger.Info("all games finished")
	case <-time.After(timeout):
		h.logger.Warn("games still running at shutdown", "timeout", timeout)
	}
}

// gameMiddleware runs one game per SSH session.
func (h *host) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		h.games.Add(1)
		defer h.games.Done()

		h.logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err := loop.Run(h.ctx, bufio.NewReader(sess), sess, loop.Options{
			Config:       h.cfg,
			Seed:         time.Now().UnixNano(),
			Player:       sess.User(),
			Scores:       h.board,
			TermSizeFunc: sizeTracker.getSize,
			Logger:       h.logger.With("user", sess.User()),
		})
		if err != nil {
			h.logger.Error("game error", "user", sess.User(), "err", err)
		}

		h.logger.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
