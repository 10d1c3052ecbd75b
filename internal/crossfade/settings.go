package crossfade

import "time"

const (
	MinDuration     = 1 * time.Second
	MaxDuration     = 12 * time.Second
	DefaultDuration = 6 * time.Second
)

// Settings are the user's crossfade preferences.
type Settings struct {
	Enabled  bool
	Duration time.Duration
}

func DefaultSettings() Settings {
	return Settings{Enabled: false, Duration: DefaultDuration}
}

// Normalize clamps Duration into [MinDuration, MaxDuration].
func (s Settings) Normalize() Settings {
	s.Duration = min(max(s.Duration, MinDuration), MaxDuration)
	return s
}
