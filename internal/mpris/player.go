package mpris

import (
	"time"

	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/radio"
)

// Player is the part of playback.Service exposed over MPRIS.
type Player interface {
	Play() error
	Pause() error
	Toggle() error
	Stop() error
	Next() error
	Previous() error
	Seek(delta time.Duration) error
	SeekTo(position time.Duration) error
	SetVolume(level float64) error
	SetRepeatMode(mode playlist.RepeatMode)
	SetShuffle(enabled bool)

	State() playback.State
	Mode() playback.Mode
	Position() time.Duration
	CurrentTrack() *playlist.Track
	QueueTracks() []playlist.Track
	QueueCurrentIndex() int
	RepeatMode() playlist.RepeatMode
	Shuffle() bool
	Volume() float64
	RadioStatus() radio.Status
}

var _ Player = (playback.Service)(nil)

// Options tune what the adapter reports.
type Options struct {
	// Identity is the player name shown by desktop widgets.
	Identity string
	// ArtURL returns a cover image URL for a track, or "".
	ArtURL func(t playlist.Track) string
}

func (o Options) withDefaults() Options {
	if o.Identity == "" {
		o.Identity = "Encore"
	}
	return o
}

// canGoNext reports whether Next would change the entry.
func canGoNext(p Player) bool {
	if p.Mode() == playback.ModeRadio {
		return false
	}
	n := len(p.QueueTracks())
	i := p.QueueCurrentIndex()
	if n == 0 || i < 0 {
		return false
	}
	return i < n-1 || p.RepeatMode() == playlist.RepeatAll || (p.Shuffle() && n > 1)
}

func canGoPrevious(p Player) bool {
	return p.Mode() == playback.ModeQueue && len(p.QueueTracks()) > 0
}

// nowPlaying returns title, artist and album for the current audio, which is
// the station and its stream title in radio mode.
func nowPlaying(p Player) (title, artist, album string, ok bool) {
	if p.Mode() == playback.ModeRadio {
		st := p.RadioStatus()
		if !st.Active {
			return "", "", "", false
		}
		title = st.Title
		if title == "" {
			title = st.Station.Name
		}
		return title, st.Station.Name, "", true
	}
	t := p.CurrentTrack()
	if t == nil {
		return "", "", "", false
	}
	return t.Title, t.Artist, t.AlbumName, true
}
