package mpris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/radio"
)

type fakePlayer struct {
	mode    playback.Mode
	tracks  []playlist.Track
	index   int
	repeat  playlist.RepeatMode
	shuffle bool
	radio   radio.Status
}

func (f *fakePlayer) Play() error                         { return nil }
func (f *fakePlayer) Pause() error                        { return nil }
func (f *fakePlayer) Toggle() error                       { return nil }
func (f *fakePlayer) Stop() error                         { return nil }
func (f *fakePlayer) Next() error                         { return nil }
func (f *fakePlayer) Previous() error                     { return nil }
func (f *fakePlayer) Seek(time.Duration) error            { return nil }
func (f *fakePlayer) SeekTo(time.Duration) error          { return nil }
func (f *fakePlayer) SetVolume(float64) error             { return nil }
func (f *fakePlayer) SetRepeatMode(m playlist.RepeatMode) { f.repeat = m }
func (f *fakePlayer) SetShuffle(on bool)                  { f.shuffle = on }
func (f *fakePlayer) State() playback.State               { return playback.StatePlaying }
func (f *fakePlayer) Mode() playback.Mode                 { return f.mode }
func (f *fakePlayer) Position() time.Duration             { return 0 }
func (f *fakePlayer) QueueTracks() []playlist.Track       { return f.tracks }
func (f *fakePlayer) QueueCurrentIndex() int              { return f.index }
func (f *fakePlayer) RepeatMode() playlist.RepeatMode     { return f.repeat }
func (f *fakePlayer) Shuffle() bool                       { return f.shuffle }
func (f *fakePlayer) Volume() float64                     { return 1 }
func (f *fakePlayer) RadioStatus() radio.Status           { return f.radio }

func (f *fakePlayer) CurrentTrack() *playlist.Track {
	if f.index < 0 || f.index >= len(f.tracks) {
		return nil
	}
	t := f.tracks[f.index]
	return &t
}

func threeTracks() []playlist.Track {
	return []playlist.Track{
		{ID: "a", Title: "One", Artist: "X", AlbumName: "First"},
		{ID: "b", Title: "Two", Artist: "Y", AlbumName: "Second"},
		{ID: "c", Title: "Three", Artist: "Z", AlbumName: "Third"},
	}
}

func TestCanGoNext(t *testing.T) {
	tests := []struct {
		name string
		p    *fakePlayer
		want bool
	}{
		{"empty queue", &fakePlayer{index: -1}, false},
		{"middle", &fakePlayer{tracks: threeTracks(), index: 1}, true},
		{"last entry", &fakePlayer{tracks: threeTracks(), index: 2}, false},
		{"last entry repeat all", &fakePlayer{tracks: threeTracks(), index: 2, repeat: playlist.RepeatAll}, true},
		{"last entry shuffled", &fakePlayer{tracks: threeTracks(), index: 2, shuffle: true}, true},
		{"radio", &fakePlayer{mode: playback.ModeRadio, tracks: threeTracks(), index: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canGoNext(tt.p))
		})
	}
}

func TestCanGoPrevious(t *testing.T) {
	assert.False(t, canGoPrevious(&fakePlayer{index: -1}))
	assert.True(t, canGoPrevious(&fakePlayer{tracks: threeTracks(), index: 0}))
	assert.False(t, canGoPrevious(&fakePlayer{mode: playback.ModeRadio, tracks: threeTracks()}))
}

func TestNowPlaying_Track(t *testing.T) {
	title, artist, album, ok := nowPlaying(&fakePlayer{tracks: threeTracks(), index: 1})

	assert.True(t, ok)
	assert.Equal(t, "Two", title)
	assert.Equal(t, "Y", artist)
	assert.Equal(t, "Second", album)
}

func TestNowPlaying_Nothing(t *testing.T) {
	_, _, _, ok := nowPlaying(&fakePlayer{index: -1})
	assert.False(t, ok)
}

func TestNowPlaying_Radio(t *testing.T) {
	p := &fakePlayer{
		mode:  playback.ModeRadio,
		radio: radio.Status{Active: true, Station: radio.Station{ID: "fip", Name: "FIP"}},
	}

	title, artist, _, ok := nowPlaying(p)
	assert.True(t, ok)
	assert.Equal(t, "FIP", title)
	assert.Equal(t, "FIP", artist)

	p.radio.Title = "Nina Simone - Sinnerman"
	title, _, _, _ = nowPlaying(p)
	assert.Equal(t, "Nina Simone - Sinnerman", title)
}

func TestNowPlaying_RadioInactive(t *testing.T) {
	_, _, _, ok := nowPlaying(&fakePlayer{mode: playback.ModeRadio})
	assert.False(t, ok)
}

func TestOptionsDefaults(t *testing.T) {
	assert.Equal(t, "Encore", Options{}.withDefaults().Identity)
	assert.Equal(t, "Custom", Options{Identity: "Custom"}.withDefaults().Identity)
}
