package player

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPair(t *testing.T) (*Pair, *Mock, *Mock, *[]Event) {
	t.Helper()
	a, b := NewMock(), NewMock()
	p := NewPair(a, b)
	var events []Event
	p.OnEvent(func(e Event) { events = append(events, e) })
	return p, a, b, &events
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func TestPair_LoadInactiveIsMuted(t *testing.T) {
	p, a, b, _ := newTestPair(t)

	p.LoadActive("a.mp3")
	p.LoadInactive("b.mp3")

	assert.Equal(t, "a.mp3", a.URL())
	assert.Equal(t, "b.mp3", b.URL())
	assert.InDelta(t, 1.0, a.Volume(), 1e-9)
	assert.InDelta(t, 0.0, b.Volume(), 1e-9)
}

func TestPair_SwitchActiveRoutesByRole(t *testing.T) {
	p, a, b, _ := newTestPair(t)

	p.SwitchActive()
	p.LoadActive("x.mp3")
	assert.Equal(t, "x.mp3", b.URL())
	assert.Empty(t, a.URL())
	assert.Equal(t, "x.mp3", p.URL(Active))

	p.SwitchActive()
	assert.Equal(t, "x.mp3", p.URL(Inactive))
}

func TestPair_PlayErrorIsPlaybackError(t *testing.T) {
	p, a, _, _ := newTestPair(t)
	p.LoadActive("a.mp3")
	a.SetPlayError(errors.New("autoplay rejected"))

	err := p.PlayActive()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlayback)
	var pe *PlaybackError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "play", pe.Op)
	assert.Equal(t, "a.mp3", pe.URL)
}

func TestPair_PlayWithoutSource(t *testing.T) {
	p, _, _, _ := newTestPair(t)

	err := p.PlayInactive()

	assert.ErrorIs(t, err, ErrPlayback)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestPair_StopClearsSource(t *testing.T) {
	p, a, b, _ := newTestPair(t)
	p.LoadActive("a.mp3")
	p.LoadInactive("b.mp3")
	require.NoError(t, p.PlayActive())
	a.Advance(30 * time.Second)

	p.StopBoth()

	assert.Equal(t, Stopped, a.State())
	assert.Equal(t, Stopped, b.State())
	assert.Empty(t, p.URL(Active))
	assert.Empty(t, p.URL(Inactive))
	assert.Equal(t, time.Duration(0), p.Position())
}

func TestPair_PauseForwardedOnlyWhenBothPaused(t *testing.T) {
	p, _, _, events := newTestPair(t)
	p.LoadActive("a.mp3")
	p.LoadInactive("b.mp3")
	require.NoError(t, p.PlayActive())
	require.NoError(t, p.PlayInactive())
	*events = nil

	// Outgoing slot stops mid-crossfade while the incoming one plays.
	p.StopActive()
	assert.NotContains(t, eventTypes(*events), EventPause)

	p.SwitchActive()
	p.PauseActive()
	assert.Equal(t, []EventType{EventPause}, eventTypes(*events))
}

func TestPair_TimeUpdatesOnlyFromActive(t *testing.T) {
	p, a, b, events := newTestPair(t)
	p.LoadActive("a.mp3")
	p.LoadInactive("b.mp3")
	*events = nil

	a.Advance(10 * time.Second)
	b.Advance(2 * time.Second)
	b.SetDuration(200 * time.Second)

	require.Len(t, *events, 1)
	assert.Equal(t, EventTimeUpdate, (*events)[0].Type)
	assert.Equal(t, 10*time.Second, (*events)[0].Position)
	assert.True(t, (*events)[0].Active)

	p.SwitchActive()
	b.Advance(3 * time.Second)
	require.Len(t, *events, 2)
	assert.Equal(t, 3*time.Second, (*events)[1].Position)
}

func TestPair_OtherEventsCarryRole(t *testing.T) {
	p, a, b, events := newTestPair(t)

	b.Emit(Event{Type: EventCanPlay})
	a.Emit(Event{Type: EventEnded})

	require.Len(t, *events, 2)
	assert.False(t, (*events)[0].Active)
	assert.True(t, (*events)[1].Active)
}

func TestPair_VolumeControls(t *testing.T) {
	p, a, b, _ := newTestPair(t)

	p.SetVolume(0.6)
	assert.InDelta(t, 0.6, a.Volume(), 1e-9)
	assert.InDelta(t, 0.6, b.Volume(), 1e-9)

	p.SetAudioVolume(Inactive, 0.2)
	assert.InDelta(t, 0.6, a.Volume(), 1e-9)
	assert.InDelta(t, 0.2, p.Volume(Inactive), 1e-9)

	p.SetVolume(1.5)
	assert.InDelta(t, 1.0, a.Volume(), 1e-9)
}

func TestPair_Ready(t *testing.T) {
	p, _, b, _ := newTestPair(t)
	assert.False(t, p.Ready())

	p.LoadInactive("b.mp3")
	assert.True(t, p.Preloaded())
	assert.False(t, p.Ready(), "still buffering")

	b.Emit(Event{Type: EventCanPlay})
	assert.True(t, p.Ready())

	p.LoadInactive("c.mp3")
	assert.False(t, p.Ready(), "a new load resets readiness")

	b.Emit(Event{Type: EventCanPlay})
	b.Emit(Event{Type: EventError, Err: errors.New("reset")})
	assert.False(t, p.Ready(), "an errored preload is not ready")

	b.Emit(Event{Type: EventCanPlay})
	p.StopInactive()
	assert.False(t, p.Ready())
	assert.False(t, p.Preloaded())
}

func TestPair_ReadyFollowsSwitch(t *testing.T) {
	p, a, b, _ := newTestPair(t)
	p.LoadActive("a.mp3")
	a.Emit(Event{Type: EventCanPlay})
	p.LoadInactive("b.mp3")
	b.Emit(Event{Type: EventCanPlay})

	p.SwitchActive()
	p.StopInactive()

	assert.False(t, p.Ready())
	p.LoadInactive("c.mp3")
	assert.False(t, p.Ready())
	a.Emit(Event{Type: EventCanPlay})
	assert.True(t, p.Ready())
}

func TestNewPair_RejectsNilSource(t *testing.T) {
	assert.Panics(t, func() { NewPair(NewMock(), nil) })
	assert.Panics(t, func() { NewPair(nil, NewMock()) })
}

func TestPair_SeekError(t *testing.T) {
	p, a, _, _ := newTestPair(t)
	p.LoadActive("live")
	a.SetSeekError(ErrNotSeekable)

	err := p.Seek(time.Second)

	assert.ErrorIs(t, err, ErrPlayback)
	assert.ErrorIs(t, err, ErrNotSeekable)
}

func TestLevelToVolume(t *testing.T) {
	v, silent := levelToVolume(1)
	assert.InDelta(t, 0.0, v, 1e-9)
	assert.False(t, silent)

	v, _ = levelToVolume(0.5)
	assert.InDelta(t, -1.0, v, 1e-9)

	v, _ = levelToVolume(0.25)
	assert.InDelta(t, -2.0, v, 1e-9)

	_, silent = levelToVolume(0)
	assert.True(t, silent)
}

func TestDetectCodec(t *testing.T) {
	assert.Equal(t, codecFLAC, detectCodec("audio/flac", "http://x/stream"))
	assert.Equal(t, codecFLAC, detectCodec("", "http://x/song.FLAC?token=abc"))
	assert.Equal(t, codecMP3, detectCodec("audio/mpeg", "http://x/song.mp3"))
	assert.Equal(t, codecMP4, detectCodec("audio/mp4", "http://x/stream/42"))
	assert.Equal(t, codecMP4, detectCodec("application/octet-stream", "http://x/song.m4a"))
	assert.Equal(t, codecMP3, detectCodec("", "http://radio/live"))
}
