package crossfade

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/encore/internal/eventloop"
	"github.com/llehouerou/encore/internal/player"
)

type fixture struct {
	pair     *player.Pair
	a, b     *player.Mock
	runner   *eventloop.Manual
	ctrl     *Controller
	complete int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{a: player.NewMock(), b: player.NewMock(), runner: eventloop.NewManual()}
	f.pair = player.NewPair(f.a, f.b)
	f.ctrl = New(f.pair, f.runner, zerolog.Nop())

	f.pair.LoadActive("a.mp3")
	require.NoError(t, f.pair.PlayActive())
	f.pair.LoadInactive("b.mp3")
	f.b.Emit(player.Event{Type: player.EventCanPlay})
	return f
}

func (f *fixture) start(t *testing.T, target float64) {
	t.Helper()
	require.NoError(t, f.ctrl.Start(target, 5*time.Second, func() { f.complete++ }))
}

func TestVolumes(t *testing.T) {
	out, in := Volumes(0.8, 0)
	assert.InDelta(t, 0.8, out, 1e-9)
	assert.InDelta(t, 0.0, in, 1e-9)

	for k := 0; k <= Steps; k++ {
		out, in := Volumes(0.8, k)
		assert.InDelta(t, 0.8, out+in, 1e-9, "step %d", k)
		assert.GreaterOrEqual(t, out, 0.0)
		assert.LessOrEqual(t, in, 0.8)
	}

	out, in = Volumes(0.8, Steps)
	assert.InDelta(t, 0.0, out, 1e-9)
	assert.InDelta(t, 0.8, in, 1e-9)
}

func TestController_FullFade(t *testing.T) {
	f := newFixture(t)
	f.start(t, 0.8)

	assert.True(t, f.ctrl.IsCrossfading())
	assert.Equal(t, player.Playing, f.b.State(), "incoming buffer starts playing")
	assert.Equal(t, 100*time.Millisecond, f.runner.LastInterval())

	f.runner.TickN(Steps / 2)
	assert.InDelta(t, 0.4, f.a.Volume(), 1e-9)
	assert.InDelta(t, 0.4, f.b.Volume(), 1e-9)
	assert.InDelta(t, 0.8, f.a.Volume()+f.b.Volume(), 1e-9)
	assert.Equal(t, 0, f.complete)

	f.runner.TickN(Steps / 2)
	assert.Equal(t, 1, f.complete)
	assert.False(t, f.ctrl.IsCrossfading())
	assert.Equal(t, player.Stopped, f.a.State(), "outgoing buffer stopped")
	assert.Equal(t, "b.mp3", f.pair.URL(player.Active), "buffers switched")
	assert.InDelta(t, 0.8, f.b.Volume(), 1e-9)
	assert.Equal(t, 0, f.runner.Running())

	f.runner.TickN(10)
	assert.Equal(t, 1, f.complete, "switch happens exactly once")
}

func TestController_NotReady(t *testing.T) {
	a, b := player.NewMock(), player.NewMock()
	pair := player.NewPair(a, b)
	runner := eventloop.NewManual()
	c := New(pair, runner, zerolog.Nop())

	err := c.Start(1, 5*time.Second, nil)

	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.False(t, c.IsCrossfading())
	assert.Equal(t, 0, runner.Running())
	assert.Equal(t, 0, b.PlayCalls())
}

func TestController_PreloadStillBuffering(t *testing.T) {
	a, b := player.NewMock(), player.NewMock()
	pair := player.NewPair(a, b)
	runner := eventloop.NewManual()
	c := New(pair, runner, zerolog.Nop())
	pair.LoadActive("a.mp3")
	require.NoError(t, pair.PlayActive())
	pair.LoadInactive("b.mp3")

	err := c.Start(1, 5*time.Second, nil)

	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.Equal(t, 0, b.PlayCalls())
	assert.Equal(t, player.Playing, a.State())
}

func TestController_MissingBuffers(t *testing.T) {
	c := New(nil, eventloop.NewManual(), zerolog.Nop())
	assert.ErrorIs(t, c.Start(1, time.Second, nil), ErrResourceUnavailable)
}

func TestController_PlayInactiveFails(t *testing.T) {
	f := newFixture(t)
	f.b.SetPlayError(errors.New("rejected"))

	err := f.ctrl.Start(1, 5*time.Second, nil)

	assert.ErrorIs(t, err, player.ErrPlayback)
	assert.False(t, f.ctrl.IsCrossfading())
	assert.Equal(t, 0, f.runner.Running())
}

func TestController_StartWhileFading(t *testing.T) {
	f := newFixture(t)
	f.start(t, 1)

	err := f.ctrl.Start(1, 5*time.Second, nil)
	assert.ErrorIs(t, err, ErrAlreadyFading)
}

func TestController_ClearMidFade(t *testing.T) {
	f := newFixture(t)
	f.start(t, 1)
	f.runner.TickN(10)

	f.ctrl.Clear()
	f.ctrl.Clear()

	assert.False(t, f.ctrl.IsCrossfading())
	assert.Equal(t, 0, f.runner.Running())
	f.runner.TickN(Steps)
	assert.Equal(t, 0, f.complete)
	assert.Equal(t, "a.mp3", f.pair.URL(player.Active), "no switch after clear")
}

func TestController_ClearWhenIdle(t *testing.T) {
	f := newFixture(t)
	assert.NotPanics(t, f.ctrl.Clear)
	assert.False(t, f.ctrl.IsCrossfading())
}

func TestController_StaleTickIgnored(t *testing.T) {
	f := newFixture(t)
	f.start(t, 1)

	// A tick already queued when the fade was cleared must not step a new fade.
	stale := f.ctrl.gen
	f.ctrl.Clear()
	f.pair.LoadInactive("c.mp3")
	f.b.Emit(player.Event{Type: player.EventCanPlay})
	f.start(t, 1)
	f.ctrl.tick(stale)

	assert.Equal(t, 0, f.ctrl.Step())
}

func TestController_PauseResume(t *testing.T) {
	f := newFixture(t)
	f.start(t, 1)
	f.runner.TickN(20)

	f.ctrl.Pause()
	f.runner.TickN(40)
	assert.Equal(t, 20, f.ctrl.Step())
	assert.True(t, f.ctrl.IsCrossfading())

	f.ctrl.Resume()
	f.runner.TickN(30)
	assert.Equal(t, 1, f.complete)
}
