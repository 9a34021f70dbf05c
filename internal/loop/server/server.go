package server

import (
	"context"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/leaderboard"
	"github.com/tomz197/rockfield/internal/loop/config"
)

// GameServer is the interface clients use to drive a hosted session.
// Decouples the Client from the concrete Server for testing.
type GameServer interface {
	Send(in game.Intents)
	Restart()
	Snapshot() *game.Snapshot
	Subscribe() *Subscription
	Unsubscribe(sub *Subscription)
}

// EventSink consumes game events outside the simulation goroutine.
// The audio player and particle effects implement it.
type EventSink interface {
	HandleEvent(e game.Event)
}

// ScoreSink records finished games. *leaderboard.Board implements it.
type ScoreSink interface {
	Submit(e leaderboard.Entry) (rank int, err error)
}

// Server runs one game.Session on a fixed timestep and fans its events
// out to subscribers.
type Server struct {
	session  *game.Session
	snapshot atomic.Pointer[game.Snapshot]
	dt       float64
	tickTime time.Duration

	inputCh   chan game.Intents
	restartCh chan struct{}
	held      game.Intents // Held intents carried across ticks without input
	started   bool         // The session idles until the first Restart

	jobs    chan batch
	subs    map[int]*Subscription
	nextSub int
	mu      sync.RWMutex

	scores ScoreSink
	player string
	logger *log.Logger

	dropped atomic.Int64
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Options configures a Server.
type Options struct {
	Player string      // Leaderboard name
	Scores ScoreSink   // Nil disables score submission
	Logger *log.Logger // Defaults to a discarding logger
}

// batch is one tick's events on their way to the dispatcher.
type batch struct {
	events []game.Event
	result *leaderboard.Entry // Set on game over
}

// New creates a server hosting session. Call Run to start ticking.
func New(session *game.Session, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	player := opts.Player
	if player == "" {
		player = config.PlayerName
	}
	rate := session.Config().TickRate

	s := &Server{
		session:   session,
		dt:        1 / float64(rate),
		tickTime:  time.Second / time.Duration(rate),
		inputCh:   make(chan game.Intents, config.InputQueueSize),
		restartCh: make(chan struct{}, 1),
		jobs:      make(chan batch, config.EventQueueSize),
		subs:      make(map[int]*Subscription),
		scores:    opts.Scores,
		player:    player,
		logger:    logger.WithPrefix("server"),
	}
	s.snapshot.Store(session.Snapshot())
	return s
}

// Run ticks the session until ctx is cancelled. Every tick advances the
// simulation by exactly one fixed step; wall-clock time only paces it.
// Nothing advances until the first Restart.
func (s *Server) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.dispatch()
	}()
	defer func() {
		close(s.jobs)
		wg.Wait()
	}()

	s.logger.Info("session started", "tickRate", s.session.Config().TickRate, "player", s.player)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped", "tick", s.snapshot.Load().Tick, "dropped", s.dropped.Load())
			return
		default:
		}

		frameStart := time.Now()
		s.step()

		elapsed := time.Since(frameStart)
		if elapsed < s.tickTime {
			time.Sleep(s.tickTime - elapsed)
		}
	}
}

// step advances one tick and publishes the result.
func (s *Server) step() {
	if s.collectRestart() {
		if s.started {
			s.session.Restart()
			s.logger.Debug("session restarted")
		}
		s.started = true
		s.held = game.Intents{}
	}
	if !s.started {
		s.collectInputs()
		return
	}

	events := s.session.Advance(s.dt, s.collectInputs())
	s.snapshot.Store(s.session.Snapshot())

	if len(events) == 0 {
		return
	}
	b := batch{events: slices.Clone(events)}
	if s.session.Phase() == game.PhaseGameOver {
		for _, e := range events {
			if e.Kind == game.EventGameOver {
				b.result = &leaderboard.Entry{
					Name:     s.player,
					Score:    e.FinalScore,
					Level:    s.session.Level(),
					Accuracy: s.session.Score().Accuracy(),
					At:       time.Now(),
				}
			}
		}
	}

	select {
	case s.jobs <- b:
	default:
		s.dropped.Add(1)
		s.logger.Warn("event queue full, dropping batch", "events", len(b.events))
	}
}

// collectInputs drains pending intents into one frame. Edge intents from
// every frame survive; held intents come from the newest one.
func (s *Server) collectInputs() game.Intents {
	in := s.held
	for {
		select {
		case next := <-s.inputCh:
			in = in.Merge(next)
		default:
			s.held = game.Intents{Thrust: in.Thrust, RotateLeft: in.RotateLeft, RotateRight: in.RotateRight}
			return in
		}
	}
}

func (s *Server) collectRestart() bool {
	select {
	case <-s.restartCh:
		return true
	default:
		return false
	}
}

// Send queues intents for the next tick. Drops them if the queue is full.
func (s *Server) Send(in game.Intents) {
	select {
	case s.inputCh <- in:
	default:
	}
}

// Restart requests a fresh game on the next tick. The first call starts
// the session that New was given as is.
func (s *Server) Restart() {
	select {
	case s.restartCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest published world state.
func (s *Server) Snapshot() *game.Snapshot {
	return s.snapshot.Load()
}

// Dropped reports how many event batches and subscriber deliveries were
// discarded because a consumer fell behind.
func (s *Server) Dropped() int64 {
	return s.dropped.Load()
}

// dispatch delivers batches to subscribers and submits finished games.
func (s *Server) dispatch() {
	for b := range s.jobs {
		for _, e := range b.events {
			s.broadcast(ClientEvent{Type: EventGame, Game: e})
		}
		if b.result != nil {
			s.submit(*b.result)
		}
	}
}

func (s *Server) submit(entry leaderboard.Entry) {
	if s.scores == nil {
		return
	}
	rank, err := s.scores.Submit(entry)
	if err != nil {
		s.logger.Error("failed to record score", "player", entry.Name, "score", entry.Score, "rank", rank, "err", err)
		// A rank means the table took the entry but could not save it
		if rank == 0 {
			return
		}
	}
	s.logger.Info("game recorded", "player", entry.Name, "score", entry.Score, "level", entry.Level, "rank", rank)
	s.broadcast(ClientEvent{Type: EventRanked, Rank: rank})
}
