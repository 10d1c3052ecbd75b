package playback

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Mode is what feeds the buffers. Queue playback and radio exclude each other.
type Mode int

const (
	ModeQueue Mode = iota
	ModeRadio
)

func (m Mode) String() string {
	switch m {
	case ModeQueue:
		return "Queue"
	case ModeRadio:
		return "Radio"
	default:
		return "Unknown"
	}
}
