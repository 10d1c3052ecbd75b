package playback

import (
	"time"

	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/radio"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when playback moves to a different queue entry.
//
// Emitted by:
//   - Play/Next/Previous/JumpTo/SetQueue: when playback starts on a track
//   - a natural end that advances to the next track
//   - a completed crossfade (Crossfaded is set)
//   - removing the current entry
//
// NOT emitted by:
//   - Pause/Resume/Seek and restarts of the same entry (repeat one, previous
//     after 3 seconds)
//
// Side effects tied to a track (notifications, MPRIS metadata) hang off
// this event.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
	Crossfaded    bool
}

// QueueChange is emitted when the queue contents or current index change.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode playlist.RepeatMode
	Shuffle    bool
}

// SourceChange is emitted when switching between queue playback and radio.
type SourceChange struct {
	Mode Mode
}

// RadioChange carries the radio status (station, signal, stream title).
type RadioChange struct {
	Status radio.Status
}

// PositionChange is emitted on time updates and seeks.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted when an asynchronous operation fails.
type ErrorEvent struct {
	Operation string // e.g., "play", "seek", "crossfade"
	TrackID   string // track if applicable
	Err       error
}
