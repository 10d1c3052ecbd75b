package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	tests := []struct {
		state                     State
		name                      string
		active, canPause, canPlay bool
	}{
		{Stopped, "Stopped", false, false, false},
		{Playing, "Playing", true, true, false},
		{Paused, "Paused", true, false, true},
		{State(99), "Unknown", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.active, tt.state.IsActive())
			assert.Equal(t, tt.canPause, tt.state.CanPause())
			assert.Equal(t, tt.canPlay, tt.state.CanResume())
		})
	}
}

type recorder struct{ events []EventType }

func (r *recorder) handle(e Event) { r.events = append(r.events, e.Type) }

func TestMock_LoadPlayPauseStop(t *testing.T) {
	m := NewMock()
	rec := &recorder{}
	m.SetHandler(rec.handle)
	require.Equal(t, Stopped, m.State())

	m.Load("http://x/a.mp3")
	assert.Equal(t, Paused, m.State(), "a loaded slot waits paused")
	assert.Equal(t, "http://x/a.mp3", m.URL())

	require.NoError(t, m.Play())
	assert.Equal(t, Playing, m.State())

	m.Advance(30 * time.Second)
	m.Pause()
	assert.Equal(t, Paused, m.State())
	assert.Equal(t, 30*time.Second, m.Position())

	require.NoError(t, m.Play())
	m.Stop()
	assert.Equal(t, Stopped, m.State())
	assert.Empty(t, m.URL())
	assert.Zero(t, m.Position())

	assert.Equal(t, []EventType{EventPlay, EventTimeUpdate, EventPause, EventPlay, EventPause}, rec.events)
}

func TestMock_NoOpTransitions(t *testing.T) {
	m := NewMock()
	rec := &recorder{}
	m.SetHandler(rec.handle)

	m.Pause()
	m.Stop()
	assert.Equal(t, Stopped, m.State())
	assert.ErrorIs(t, m.Play(), ErrNoSource)

	m.Load("http://x/a.mp3")
	require.NoError(t, m.Play())
	require.NoError(t, m.Play())
	assert.Equal(t, []EventType{EventPlay}, rec.events, "playing twice emits once")
}

func TestMock_FinishLeavesSlotPaused(t *testing.T) {
	m := NewMock()
	m.Load("http://x/a.mp3")
	m.SetDuration(3 * time.Minute)
	require.NoError(t, m.Play())

	m.Finish()
	assert.Equal(t, Paused, m.State())
	assert.Equal(t, 3*time.Minute, m.Position())
}
