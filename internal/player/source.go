package player

import "time"

// Source is one playable audio buffer slot.
//
// All methods are called from the event loop. Implementations deliver events
// through the handler on that same goroutine.
type Source interface {
	// Load assigns url and starts buffering. It replaces whatever was loaded.
	Load(url string)
	// Play starts or resumes playback. Playing before buffering completes
	// starts as soon as the media can play.
	Play() error
	Pause()
	// Stop releases the media, clears the URL and resets the position.
	Stop()
	Seek(pos time.Duration) error

	SetVolume(level float64)
	Volume() float64

	Position() time.Duration
	Duration() time.Duration
	State() State
	URL() string

	SetHandler(fn func(Event))
}
