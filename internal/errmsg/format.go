// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpStreamLoad    Op = "load stream"
	OpStreamPlay    Op = "keep the stream playing"

	// Queue operations
	OpQueueLoad Op = "load queue"
	OpQueueSave Op = "save queue"

	// Radio operations
	OpRadioPlay     Op = "play radio station"
	OpStationsLoad  Op = "load radio stations"
	OpStationRecall Op = "recall last station"

	// Listening history
	OpRecordPlay       Op = "record play"
	OpLastfmAuth       Op = "authenticate with Last.fm"
	OpLastfmScrobble   Op = "scrobble to Last.fm"
	OpLastfmNowPlaying Op = "update Last.fm now playing"

	// Settings
	OpSettingsLoad Op = "load settings"
	OpVolumeSave   Op = "save volume"

	// Initialization
	OpInitialize Op = "initialize application"
)

// playbackOps maps the operation names carried by playback error events.
var playbackOps = map[string]Op{
	"load":   OpStreamLoad,
	"play":   OpPlaybackStart,
	"seek":   OpPlaybackSeek,
	"stream": OpStreamPlay,
	"radio":  OpRadioPlay,
}

// ForPlayback returns the Op for a playback error event's operation name.
func ForPlayback(operation string) Op {
	if op, ok := playbackOps[operation]; ok {
		return op
	}
	return Op(operation)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
