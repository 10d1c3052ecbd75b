package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs for one style.
type Icons struct {
	Play      string
	Pause     string
	Stop      string
	Radio     string
	Track     string
	Shuffle   string
	RepeatAll string
	RepeatOne string
	Crossfade string
	Normalize string
	Volume    string
	Signal    [3]string // indexed by radio.Signal: good, weak, error
}

var (
	nerdIcons = Icons{
		Play:      "",  // nf-fa-play
		Pause:     "",  // nf-fa-pause
		Stop:      "",  // nf-fa-stop
		Radio:     "󰐹 ", // nf-md-radio_tower
		Track:     " ", // nf-fa-music
		Shuffle:   "󰒟",
		RepeatAll: "󰑖",
		RepeatOne: "󰑘",
		Crossfade: "󰓡",
		Normalize: "󰕾",
		Volume:    "󰕾",
		Signal:    [3]string{"󰤨", "󰤟", "󰤫"},
	}

	unicodeIcons = Icons{
		Play:      "▶",
		Pause:     "⏸",
		Stop:      "⏹",
		Radio:     "📻 ",
		Track:     "🎵 ",
		Shuffle:   "🔀",
		RepeatAll: "🔁",
		RepeatOne: "🔂",
		Crossfade: "⤨",
		Normalize: "≋",
		Volume:    "🔊",
		Signal:    [3]string{"●", "◐", "✕"},
	}

	noneIcons = Icons{
		Play:      ">",
		Pause:     "||",
		Stop:      "[]",
		Shuffle:   "[S]",
		RepeatAll: "[R]",
		RepeatOne: "[1]",
		Crossfade: "[X]",
		Normalize: "[L]",
		Volume:    "vol",
		Signal:    [3]string{"ok", "weak", "err"},
	}

	current = noneIcons
)

// Init selects the icon style. Unknown styles fall back to plain text.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// Current returns the active icon set.
func Current() Icons {
	return current
}

// FormatStation prefixes a station name with the radio icon.
func FormatStation(name string) string {
	return current.Radio + name
}

// FormatTrack prefixes a track title with the track icon.
func FormatTrack(title string) string {
	return current.Track + title
}

// SignalIcon returns the glyph for a radio signal level.
func SignalIcon(i int) string {
	if i < 0 || i >= len(current.Signal) {
		return ""
	}
	return current.Signal[i]
}
