package input

import (
	"strings"
	"testing"
	"time"

	"github.com/tomz197/rockfield/internal/game"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		intents game.Intents
		quit    bool
		restart bool
	}{
		{"nothing", "", game.Intents{}, false, false},
		{"thrust", "w", game.Intents{Thrust: true}, false, false},
		{"left", "a", game.Intents{RotateLeft: true}, false, false},
		{"right vim", "l", game.Intents{RotateRight: true}, false, false},
		{"thrust left combo", "u", game.Intents{Thrust: true, RotateLeft: true}, false, false},
		{"thrust right combo", "o", game.Intents{Thrust: true, RotateRight: true}, false, false},
		{"fire", " ", game.Intents{Fire: true}, false, false},
		{"mute", "m", game.Intents{ToggleMute: true}, false, false},
		{"up arrow", "\x1b[A", game.Intents{Thrust: true}, false, false},
		{"left arrow", "\x1b[D", game.Intents{RotateLeft: true}, false, false},
		{"right arrow ss3", "\x1bOC", game.Intents{RotateRight: true}, false, false},
		{"down arrow ignored", "\x1b[B", game.Intents{}, false, false},
		{"quit", "q", game.Intents{}, true, false},
		{"ctrl-c", "\x03", game.Intents{}, true, false},
		{"restart", "\r", game.Intents{}, false, true},
		{"mixed", "wd ", game.Intents{Thrust: true, RotateRight: true, Fire: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(0)
			f := d.Decode([]byte(tt.in), time.Now())
			if f.Intents != tt.intents {
				t.Errorf("intents: got %+v, want %+v", f.Intents, tt.intents)
			}
			if f.Quit != tt.quit {
				t.Errorf("quit: got %t, want %t", f.Quit, tt.quit)
			}
			if f.Restart != tt.restart {
				t.Errorf("restart: got %t, want %t", f.Restart, tt.restart)
			}
		})
	}
}

func TestHeldKeysExpire(t *testing.T) {
	d := NewDecoder(100 * time.Millisecond)
	start := time.Now()

	d.Decode([]byte("w"), start)
	if f := d.Decode(nil, start.Add(50*time.Millisecond)); !f.Intents.Thrust {
		t.Fatal("thrust released inside the hold window")
	}
	if f := d.Decode(nil, start.Add(150*time.Millisecond)); f.Intents.Thrust {
		t.Fatal("thrust still held after the hold window")
	}
}

func TestEdgeKeysDoNotRepeat(t *testing.T) {
	d := NewDecoder(0)
	now := time.Now()

	if f := d.Decode([]byte(" m"), now); !f.Intents.Fire || !f.Intents.ToggleMute {
		t.Fatalf("first frame: %+v", f.Intents)
	}
	f := d.Decode(nil, now.Add(time.Millisecond))
	if f.Intents.Fire || f.Intents.ToggleMute {
		t.Fatalf("edge intents repeated: %+v", f.Intents)
	}
}

func TestStreamQuitsAtEOF(t *testing.T) {
	s := StartStream(strings.NewReader("w"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f := s.Read(); f.Quit {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("stream never reported quit after EOF")
}
