package player

import "time"

// EventType identifies a buffer event.
type EventType int

const (
	EventPlay EventType = iota
	EventPause
	EventTimeUpdate
	EventDurationChange
	EventEnded
	EventError
	EventWaiting
	EventPlaying
	EventStalled
	EventCanPlay
	EventMetadata
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventTimeUpdate:
		return "timeupdate"
	case EventDurationChange:
		return "durationchange"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	case EventWaiting:
		return "waiting"
	case EventPlaying:
		return "playing"
	case EventStalled:
		return "stalled"
	case EventCanPlay:
		return "canplay"
	case EventMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// Event is emitted by a Source and forwarded by the Pair.
type Event struct {
	Type     EventType
	Position time.Duration
	Duration time.Duration
	Title    string // stream title for EventMetadata
	Err      error  // set for EventError

	// Active is set by the Pair: true when the event came from the active slot.
	Active bool
}
