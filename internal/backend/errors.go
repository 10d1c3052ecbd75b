package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is wrapped by every NetworkError.
	ErrNetwork = errors.New("network error")
	// ErrTokenExpired means the auth token can no longer mint stream URLs.
	ErrTokenExpired = errors.New("auth token expired")
	ErrNoToken      = errors.New("no auth token")
)

// NetworkError reports a failed request to the server.
type NetworkError struct {
	Op     string
	Status int // HTTP status, 0 if the request never completed
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}
