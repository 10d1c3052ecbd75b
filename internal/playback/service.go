package playback

import (
	"time"

	"github.com/llehouerou/encore/internal/crossfade"
	"github.com/llehouerou/encore/internal/loudness"
	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/session"
)

// Service defines the playback service contract.
//
// Commands are safe to call from any goroutine except the event loop
// itself. They return errors known synchronously; failures that surface
// later arrive as ErrorEvent on subscriptions.
type Service interface {
	// Playback control
	Play() error
	Pause() error
	Resume() error
	Toggle() error
	Stop() error
	Next() error
	Previous() error
	Seek(delta time.Duration) error
	SeekTo(position time.Duration) error

	// Queue navigation (starts playback)
	JumpTo(index int) error

	// Queue manipulation
	SetQueue(tracks []playlist.Track, start int, src session.Source) error
	AddTracks(tracks ...playlist.Track) error
	Remove(index int) error
	Move(from, to int) error
	ClearQueue() error

	// Queue history
	Undo() bool
	Redo() bool

	// Mode control
	SetRepeatMode(mode playlist.RepeatMode)
	CycleRepeatMode() playlist.RepeatMode
	SetShuffle(enabled bool)
	ToggleShuffle() bool

	// Radio
	PlayStation(st radio.Station) error
	StopRadio() error

	// Volume and reactive settings
	SetVolume(level float64) error
	SetCrossfade(s crossfade.Settings)
	SetNormalization(s loudness.Settings)

	// State queries
	State() State
	Mode() Mode
	Position() time.Duration
	Duration() time.Duration
	CurrentTrack() *playlist.Track
	Volume() float64
	RadioStatus() radio.Status
	CrossfadeSettings() crossfade.Settings
	NormalizationSettings() loudness.Settings

	// Queue queries
	QueueTracks() []playlist.Track
	QueueCurrentIndex() int
	RepeatMode() playlist.RepeatMode
	Shuffle() bool

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
