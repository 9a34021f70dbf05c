package game

// Phase is the session's top-level state.
type Phase int

const (
	PhaseActive Phase = iota
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Pause is the Active → Paused(remaining) → Active | GameOver state machine
// entered when the ship is hit.
type Pause struct {
	phase     Phase
	remaining float64
	duration  float64
}

// NewPause returns an active machine whose pauses last duration seconds.
func NewPause(duration float64) Pause {
	return Pause{duration: duration}
}

func (p *Pause) Phase() Phase       { return p.phase }
func (p *Pause) Remaining() float64 { return p.remaining }

// Enter starts the countdown. Only valid while active.
func (p *Pause) Enter() {
	if p.phase != PhaseActive {
		return
	}
	p.phase = PhasePaused
	p.remaining = p.duration
}

// Tick advances the countdown and reports whether it just ran out.
// The machine stays paused until Resume or Finish is called.
func (p *Pause) Tick(dt float64) bool {
	if p.phase != PhasePaused {
		return false
	}
	p.remaining -= dt
	return p.remaining <= 0
}

// Resume returns to active after a reset.
func (p *Pause) Resume() {
	if p.phase == PhasePaused {
		p.phase = PhaseActive
		p.remaining = 0
	}
}

// Finish moves to the terminal game-over phase.
func (p *Pause) Finish() {
	p.phase = PhaseGameOver
	p.remaining = 0
}
