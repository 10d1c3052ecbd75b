package crossfade

import (
	"time"

	"github.com/llehouerou/encore/internal/playlist"
)

// Conditions is what the trigger looks at on every time update.
type Conditions struct {
	Enabled  bool
	Fading   bool
	Radio    bool
	Repeat   playlist.RepeatMode
	HasNext  bool
	Duration time.Duration
	Position time.Duration
	Fade     time.Duration
}

// ShouldStart reports whether a crossfade into the next track should begin.
// The caller latches the result so it fires once per track.
func ShouldStart(c Conditions) bool {
	if !c.Enabled || c.Fading || c.Radio || !c.HasNext {
		return false
	}
	if c.Repeat == playlist.RepeatOne {
		return false
	}
	if c.Duration <= c.Fade {
		return false
	}
	remaining := c.Duration - c.Position
	return remaining > 0 && remaining <= c.Fade
}
