// Package audio turns game events into synthesized sound effects.
//
// A Player is a beep.Streamer: hand it to speaker.Play (or any other sink)
// and feed it events with HandleEvent. Nothing here blocks the caller.
package audio

import (
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/tomz197/rockfield/internal/game"
)

// DefaultSampleRate is the rate the terminal binary opens the speaker with.
const DefaultSampleRate = beep.SampleRate(44100)

// Player mixes one-shot effects and the looping thrust rumble.
// Safe for concurrent use: events arrive from the game loop while the
// speaker goroutine streams.
type Player struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	master *effects.Volume
	thrust *beep.Ctrl
	muted  bool
	off    bool // Master volume set to zero
	rng    *rand.Rand
	logger *log.Logger
}

// NewPlayer creates a player at the given sample rate. volume is a linear
// master gain in (0, 1]; values outside are clamped.
func NewPlayer(rate beep.SampleRate, volume float64, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mixer := &beep.Mixer{}
	p := &Player{
		rate:   rate,
		mixer:  mixer,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
	p.master = &effects.Volume{Streamer: mixer, Base: 2}
	p.SetVolume(volume)
	return p
}

// SetVolume sets the linear master gain. Zero silences the player.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.off = volume <= 0
	if p.off {
		p.master.Volume = 0
	} else {
		// effects.Volume is logarithmic: gain = Base^Volume
		p.master.Volume = math.Log2(math.Min(volume, 1))
	}
	p.master.Silent = p.muted || p.off
}

// Muted reports whether output is silenced.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Playing returns the number of active sounds, the thrust loop included.
func (p *Player) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

// Thrusting reports whether the thrust loop is audible.
func (p *Player) Thrusting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.thrust != nil && !p.thrust.Paused
}

// HandleEvent starts the sound for an event. Unknown kinds are ignored.
func (p *Player) HandleEvent(e game.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e.Kind == game.EventMuteChanged {
		p.setMuted(e.Muted)
		return
	}

	switch e.Kind {
	case game.EventThrustStarted:
		p.startThrust()
		return
	case game.EventThrustStopped:
		if p.thrust != nil {
			p.thrust.Paused = true
		}
		return
	}

	if p.muted {
		return
	}
	if s := p.effect(e); s != nil {
		p.mixer.Add(s)
	}
}

func (p *Player) setMuted(muted bool) {
	p.muted = muted
	p.master.Silent = muted || p.off
	if muted {
		// Drop queued one-shots; keep the thrust loop so unmuting mid-burn works.
		thrust := p.thrust
		p.mixer.Clear()
		if thrust != nil {
			p.mixer.Add(thrust)
		}
	}
	p.logger.Debug("audio mute changed", "muted", muted)
}

func (p *Player) startThrust() {
	if p.thrust == nil {
		p.thrust = &beep.Ctrl{
			Streamer: &effects.Gain{Streamer: noise(p.rate, 0, p.rng), Gain: -0.92},
		}
		p.mixer.Add(p.thrust)
	}
	p.thrust.Paused = false
}

// effect builds the one-shot streamer for e.
func (p *Player) effect(e game.Event) beep.Streamer {
	r := p.rate
	ms := time.Millisecond

	switch e.Kind {
	case game.EventShotFired:
		return quiet(tone(r, 880, 60*ms), 0.5)
	case game.EventAsteroidDestroyed:
		// Bigger rocks rumble longer
		d := time.Duration(60+40*e.Tier) * ms
		return quiet(fadeOut(noise(r, d, p.rng), r.N(d), r.N(d)/2), 0.6)
	case game.EventTargetDestroyed:
		return beep.Seq(tone(r, 660, 70*ms), tone(r, 990, 110*ms))
	case game.EventShipHit:
		return sweep(r, 440, 55, 600*ms)
	case game.EventLevelComplete:
		return beep.Seq(tone(r, 523, 90*ms), tone(r, 659, 90*ms), tone(r, 784, 160*ms))
	case game.EventGameOver:
		return beep.Seq(tone(r, 392, 250*ms), tone(r, 311, 250*ms), tone(r, 196, 600*ms))
	case game.EventShipWrapped:
		return quiet(tone(r, 1320, 25*ms), 0.2)
	default:
		return nil
	}
}

// quiet scales s by the linear factor f.
func quiet(s beep.Streamer, f float64) beep.Streamer {
	return &effects.Gain{Streamer: s, Gain: f - 1}
}

// Stream implements beep.Streamer. It never drains: with nothing to play
// it produces silence.
func (p *Player) Stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mixer.Len() == 0 {
		clear(samples)
		return len(samples), true
	}
	n, _ := p.master.Stream(samples)
	if n < len(samples) {
		clear(samples[n:])
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (p *Player) Err() error { return nil }
