// Package playerbar renders the now-playing panel.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/encore/internal/crossfade"
	"github.com/llehouerou/encore/internal/icons"
	"github.com/llehouerou/encore/internal/loudness"
	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/ui/render"
	"github.com/llehouerou/encore/internal/ui/styles"
)

// Height is the rendered height including borders.
const Height = 4

// Source is the part of playback.Service the bar reads.
type Source interface {
	State() playback.State
	Mode() playback.Mode
	Position() time.Duration
	Duration() time.Duration
	CurrentTrack() *playlist.Track
	QueueTracks() []playlist.Track
	QueueCurrentIndex() int
	Volume() float64
	RepeatMode() playlist.RepeatMode
	Shuffle() bool
	RadioStatus() radio.Status
	CrossfadeSettings() crossfade.Settings
	NormalizationSettings() loudness.Settings
}

// State holds everything needed to render the bar.
type State struct {
	Playing bool
	Paused  bool
	Radio   bool

	Title    string
	Artist   string
	Album    string
	Index    int
	Total    int
	Position time.Duration
	Duration time.Duration

	Station     string
	StreamTitle string
	Signal      radio.Signal
	TunedAt     time.Time

	Volume    float64
	Repeat    playlist.RepeatMode
	Shuffle   bool
	Crossfade bool
	Normalize bool
}

// NewState reads a snapshot from src. tunedAt is when the current station
// started, zero outside radio.
func NewState(src Source, tunedAt time.Time) State {
	st := src.State()
	s := State{
		Playing:   st == playback.StatePlaying,
		Paused:    st == playback.StatePaused,
		Radio:     src.Mode() == playback.ModeRadio,
		Position:  src.Position(),
		Duration:  src.Duration(),
		Volume:    src.Volume(),
		Repeat:    src.RepeatMode(),
		Shuffle:   src.Shuffle(),
		Crossfade: src.CrossfadeSettings().Enabled,
		Normalize: src.NormalizationSettings().Enabled,
		Index:     src.QueueCurrentIndex(),
		Total:     len(src.QueueTracks()),
	}
	if s.Radio {
		rs := src.RadioStatus()
		s.Station = rs.Station.Name
		s.StreamTitle = rs.Title
		s.Signal = rs.Signal
		s.TunedAt = tunedAt
		return s
	}
	if t := src.CurrentTrack(); t != nil {
		s.Title = t.Title
		s.Artist = t.Artist
		s.Album = t.AlbumName
		if s.Duration == 0 {
			s.Duration = t.Duration
		}
	}
	return s
}

// Render returns the bar for the given width.
func Render(s State, width int, now time.Time) string {
	inner := max(width-6, 10)
	var top, bottom string
	switch {
	case s.Radio:
		top, bottom = radioLines(s, inner, now)
	case s.Title == "" && !s.Playing && !s.Paused:
		top = styles.T().S().Muted.Render("Nothing playing")
		bottom = render.Row("", badges(s), inner)
	default:
		top, bottom = trackLines(s, inner)
	}
	return styles.T().S().Panel.Padding(0, 2).Width(width - 2).Render(top + "\n" + bottom)
}

func trackLines(s State, width int) (string, string) {
	st := styles.T().S()
	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}
	info := joinNonEmpty(" · ", s.Artist, s.Album)
	position := ""
	if s.Total > 0 && s.Index >= 0 {
		position = fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	}

	left := st.Title.Render(render.Truncate(icons.FormatTrack(title), width/2))
	if info != "" {
		left += "   " + st.Muted.Render(info)
	}
	top := render.Row(render.FitStyled(left, width-len(position)-1), st.Subtle.Render(position), width)

	b := badges(s)
	barWidth := max(width-len(b)-3, 10)
	bottom := render.Row(ProgressBar(s.Position, s.Duration, barWidth, statusIcon(s)), b, width)
	return top, bottom
}

func radioLines(s State, width int, now time.Time) (string, string) {
	st := styles.T().S()
	top := st.Playing.Render(icons.FormatStation(render.Sanitize(s.Station)))
	if s.StreamTitle != "" {
		top += "   " + st.Base.Render(render.Sanitize(s.StreamTitle))
	}
	top = render.FitStyled(top, width)

	status := statusIcon(s) + "  " + signalText(s.Signal)
	if !s.TunedAt.IsZero() {
		status += st.Subtle.Render("  tuned in " + humanize.RelTime(s.TunedAt, now, "ago", "from now"))
	}
	return top, render.Row(status, badges(s), width)
}

func signalText(sig radio.Signal) string {
	st := styles.T().S()
	label := icons.SignalIcon(int(sig)) + " " + sig.String()
	switch sig {
	case radio.SignalWeak:
		return st.Warning.Render(label)
	case radio.SignalError:
		return st.Error.Render(label)
	case radio.SignalGood:
		return st.Success.Render(label)
	}
	return label
}

func statusIcon(s State) string {
	ic := icons.Current()
	switch {
	case s.Playing:
		return ic.Play
	case s.Paused:
		return ic.Pause
	}
	return ic.Stop
}

// badges lists the active modes and the volume.
func badges(s State) string {
	ic := icons.Current()
	var parts []string
	if !s.Radio {
		switch s.Repeat {
		case playlist.RepeatAll:
			parts = append(parts, ic.RepeatAll)
		case playlist.RepeatOne:
			parts = append(parts, ic.RepeatOne)
		case playlist.RepeatOff:
		}
		if s.Shuffle {
			parts = append(parts, ic.Shuffle)
		}
		if s.Crossfade {
			parts = append(parts, ic.Crossfade)
		}
	}
	if s.Normalize {
		parts = append(parts, ic.Normalize)
	}
	parts = append(parts, fmt.Sprintf("%s %3d%%", ic.Volume, int(s.Volume*100+0.5)))
	return styles.T().S().Muted.Render(strings.Join(parts, " "))
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, render.Sanitize(p))
		}
	}
	return strings.Join(out, sep)
}
