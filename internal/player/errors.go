package player

import (
	"errors"
	"fmt"
)

// ErrPlayback is the sentinel wrapped by every PlaybackError.
var ErrPlayback = errors.New("playback failed")

// ErrNoSource is returned when playing a slot that has nothing loaded.
var ErrNoSource = errors.New("no source loaded")

// PlaybackError reports media that failed to load or start.
type PlaybackError struct {
	Op  string // "load", "play", "seek"
	URL string
	Err error
}

func (e *PlaybackError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *PlaybackError) Unwrap() []error {
	return []error{ErrPlayback, e.Err}
}

func newPlaybackError(op, url string, err error) error {
	var pe *PlaybackError
	if errors.As(err, &pe) {
		return err
	}
	return &PlaybackError{Op: op, URL: url, Err: err}
}
