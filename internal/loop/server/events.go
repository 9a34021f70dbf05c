package server

import (
	"time"

	"github.com/tomz197/rockfield/internal/game"
	"github.com/tomz197/rockfield/internal/loop/config"
)

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventGame           ClientEventType = iota // A simulation event
	EventRanked                                // The finished game was recorded
	EventServerShutdown                        // The host is going away
)

// ClientEvent is delivered to subscribers in tick order.
type ClientEvent struct {
	Type ClientEventType
	Game game.Event // EventGame
	Rank int        // EventRanked: 1-based, 0 when off the table
}

// Subscription is a buffered event feed. Events that do not fit are dropped.
type Subscription struct {
	ID     int
	Events chan ClientEvent
	sink   bool // Feeds an EventSink rather than a client
}

// Subscribe registers a client feed. The channel is closed by Unsubscribe.
func (s *Server) Subscribe() *Subscription {
	return s.subscribe(false)
}

func (s *Server) subscribe(sink bool) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	sub := &Subscription{
		ID:     s.nextSub,
		Events: make(chan ClientEvent, config.EventQueueSize),
		sink:   sink,
	}
	s.subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes a feed and closes its channel.
func (s *Server) Unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.ID]; ok {
		delete(s.subs, sub.ID)
		close(sub.Events)
	}
}

// AddSink forwards every game event to sink on its own goroutine until the
// returned function is called.
func (s *Server) AddSink(sink EventSink) (remove func()) {
	sub := s.subscribe(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub.Events {
			if ev.Type == EventGame {
				sink.HandleEvent(ev.Game)
			}
		}
	}()
	return func() {
		s.Unsubscribe(sub)
		<-done
	}
}

// broadcast offers ev to every subscriber without blocking.
func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		select {
		case sub.Events <- ev:
		default:
			s.dropped.Add(1)
			s.logger.Warn("subscriber lagging, dropping event", "subscriber", sub.ID, "type", ev.Type)
		}
	}
}

// clients counts subscribers that are not sinks.
func (s *Server) clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sub := range s.subs {
		if !sub.sink {
			n++
		}
	}
	return n
}

// Shutdown notifies connected clients and waits for them to unsubscribe,
// up to timeout. The caller cancels Run's context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, sub := range s.subs {
		if sub.sink {
			continue
		}
		select {
		case sub.Events <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for s.clients() > 0 {
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
