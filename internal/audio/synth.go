package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// tone returns a sine at freq lasting d, faded out over its last quarter.
func tone(rate beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		// Frequency at or above Nyquist
		return beep.Silence(rate.N(d))
	}
	return fadeOut(beep.Take(rate.N(d), sine), rate.N(d), rate.N(d)/4)
}

// noise returns white noise lasting d (infinite when d <= 0).
func noise(rate beep.SampleRate, d time.Duration, rng *rand.Rand) beep.Streamer {
	left := rate.N(d)
	infinite := d <= 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if !infinite && left <= 0 {
				return i, i > 0
			}
			v := rng.Float64()*2 - 1
			samples[i][0] = v
			samples[i][1] = v
			left--
		}
		return len(samples), true
	})
}

// sweep glides a sine from f0 to f1 over d.
func sweep(rate beep.SampleRate, f0, f1 float64, d time.Duration) beep.Streamer {
	total := rate.N(d)
	pos := 0
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= total {
				return i, i > 0
			}
			t := float64(pos) / float64(total)
			freq := f0 + (f1-f0)*t
			v := math.Sin(2*math.Pi*phase) * (1 - t)
			samples[i][0] = v
			samples[i][1] = v
			phase += freq / float64(rate)
			phase -= math.Floor(phase)
			pos++
		}
		return len(samples), true
	})
}

// envelope scales a stream linearly to zero over its final release samples.
type envelope struct {
	streamer beep.Streamer
	position int
	total    int
	release  int
}

func fadeOut(s beep.Streamer, total, release int) beep.Streamer {
	return &envelope{streamer: s, total: total, release: release}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	start := e.total - e.release
	for i := 0; i < n; i++ {
		if e.release > 0 && e.position >= start {
			vol := float64(e.total-e.position) / float64(e.release)
			if vol < 0 {
				vol = 0
			}
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
