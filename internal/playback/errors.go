package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState means the command does not apply in the current mode.
	// Nothing was changed.
	ErrInvalidState = errors.New("invalid state")
	// ErrEmptyQueue means there is nothing to play.
	ErrEmptyQueue = errors.New("queue is empty")
	// ErrIndexOutOfRange means a queue index does not name an entry.
	ErrIndexOutOfRange = errors.New("queue index out of range")
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("playback service closed")
)

// StateError reports a command rejected in the current mode.
type StateError struct {
	Op   string
	Mode Mode
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: not available in %s mode", e.Op, e.Mode)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }
