// Package input decodes raw terminal bytes into per-tick game intents.
package input

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/rockfield/internal/game"
)

// DefaultHold is how long a held key counts as down after its last byte.
// Terminals report no key releases, only autorepeat, so held keys are
// inferred from recent bytes.
const DefaultHold = 150 * time.Millisecond

// Frame is the decoded input for one tick.
type Frame struct {
	Intents game.Intents
	Quit    bool
	Restart bool   // Enter or r, edge triggered
	Pressed []byte // Raw bytes received since the previous frame
}

// keyState tracks when each held key was last seen.
type keyState struct {
	left   time.Time
	right  time.Time
	thrust time.Time
}

// Decoder turns byte batches into frames. The zero value is not usable;
// call NewDecoder.
type Decoder struct {
	hold  time.Duration
	state keyState
}

// NewDecoder creates a decoder treating keys as held for hold after their
// last byte. hold <= 0 selects DefaultHold.
func NewDecoder(hold time.Duration) *Decoder {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Decoder{hold: hold}
}

// Decode parses buf, received at now, into a frame.
// Held intents (thrust, rotation) stay on for the hold window; fire, mute,
// restart and quit are set only when their byte is in buf.
func (d *Decoder) Decode(buf []byte, now time.Time) Frame {
	f := Frame{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI (ESC [) and SS3 (ESC O) arrow sequences
		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			switch buf[i+2] {
			case 'A':
				d.state.thrust = now
				i += 2
				continue
			case 'C':
				d.state.right = now
				i += 2
				continue
			case 'D':
				d.state.left = now
				i += 2
				continue
			case 'B':
				i += 2
				continue
			}
		}
		d.apply(&f, b, now)
	}

	held := func(t time.Time) bool {
		return !t.IsZero() && now.Sub(t) < d.hold
	}
	f.Intents.Thrust = held(d.state.thrust)
	f.Intents.RotateLeft = held(d.state.left)
	f.Intents.RotateRight = held(d.state.right)
	return f
}

// apply updates the frame and key state for a single byte.
func (d *Decoder) apply(f *Frame, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		f.Quit = true
	case 'a', 'A', 'j', 'J':
		d.state.left = now
	case 'd', 'D', 'l', 'L':
		d.state.right = now
	case 'w', 'W', 'i', 'I':
		d.state.thrust = now
	case 'u', 'U':
		d.state.thrust = now
		d.state.left = now
	case 'o', 'O':
		d.state.thrust = now
		d.state.right = now
	case ' ':
		f.Intents.Fire = true
	case 'm', 'M':
		f.Intents.ToggleMute = true
	case 'r', 'R', '\n', '\r':
		f.Restart = true
	}
}

// Stream delivers terminal bytes through a channel and decodes them on demand.
type Stream struct {
	ch      chan byte
	closed  bool
	decoder *Decoder
}

// StartStream spawns a goroutine that reads from r and queues the bytes.
func StartStream(r io.Reader) *Stream {
	s := &Stream{
		ch:      make(chan byte, 128),
		decoder: NewDecoder(DefaultHold),
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Read drains every queued byte without blocking and decodes them.
// Once the reader is exhausted the frame reports Quit.
func (s *Stream) Read() Frame {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	f := s.decoder.Decode(buf, time.Now())
	if s.closed {
		f.Quit = true
	}
	return f
}
