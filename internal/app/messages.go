// Package app is the terminal control surface: a bubbletea model driving a
// playback service.
package app

import (
	"time"

	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/settings"
)

// TickMsg redraws the progress bar.
type TickMsg time.Time

// ServiceStateChangedMsg wraps a playback state change.
type ServiceStateChangedMsg struct {
	playback.StateChange
}

// ServiceTrackChangedMsg wraps a track change.
type ServiceTrackChangedMsg struct {
	playback.TrackChange
}

// ServiceQueueChangedMsg is sent when queue contents, modes or source change.
type ServiceQueueChangedMsg struct{}

// ServiceRadioChangedMsg wraps a radio status update.
type ServiceRadioChangedMsg struct {
	Status radio.Status
}

// ServiceErrorMsg wraps an asynchronous playback failure.
type ServiceErrorMsg struct {
	playback.ErrorEvent
}

// ServiceClosedMsg is sent once the service shut down.
type ServiceClosedMsg struct{}

// StationsLoadedMsg carries the station directory.
type StationsLoadedMsg struct {
	Stations []radio.Station
	Err      error
}

// SettingsChangedMsg reports settings changed from the keyboard.
type SettingsChangedMsg struct {
	Settings settings.Settings
}

// ClearStatusMsg clears the status line if nothing newer replaced it.
type ClearStatusMsg struct {
	Version int
}
