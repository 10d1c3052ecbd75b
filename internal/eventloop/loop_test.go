package eventloop

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsPostedWorkInOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		l := New(zerolog.Nop())
		go func() { _ = l.Run(ctx) }()

		var got []int
		for i := range 5 {
			l.Post(func() { got = append(got, i) })
		}
		require.NoError(t, l.Do(func() error { return nil }))

		assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	})
}

func TestLoop_DoReturnsError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		l := New(zerolog.Nop())
		go func() { _ = l.Run(ctx) }()

		want := errors.New("boom")
		err := l.Do(func() error { return want })
		assert.ErrorIs(t, err, want)
	})
}

func TestLoop_DoAfterStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		l := New(zerolog.Nop())
		go func() { _ = l.Run(ctx) }()

		cancel()
		<-l.Done()

		err := l.Do(func() error { return nil })
		assert.ErrorIs(t, err, ErrStopped)
	})
}

func TestLoop_EveryTicksUntilStopped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		l := New(zerolog.Nop())
		go func() { _ = l.Run(ctx) }()

		ticks := 0
		stop := l.Every(100*time.Millisecond, func() { ticks++ })

		time.Sleep(350 * time.Millisecond)
		synctest.Wait()
		require.NoError(t, l.Do(func() error { return nil }))
		assert.Equal(t, 3, ticks)

		stop()
		stop()
		time.Sleep(time.Second)
		synctest.Wait()
		require.NoError(t, l.Do(func() error { return nil }))
		assert.Equal(t, 3, ticks)
	})
}

func TestManual_TickAndFlush(t *testing.T) {
	m := NewManual()

	ticks := 0
	stop := m.Every(time.Second, func() { ticks++ })
	m.TickN(3)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, m.Running())

	stop()
	m.Tick()
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, m.Running())

	ran := false
	m.Post(func() { ran = true })
	assert.False(t, ran)
	m.Flush()
	assert.True(t, ran)
}

func TestManual_DoDrainsAroundCommand(t *testing.T) {
	m := NewManual()

	var order []string
	m.Post(func() { order = append(order, "queued") })
	err := m.Do(func() error {
		order = append(order, "command")
		m.Post(func() { order = append(order, "follow-up") })
		return errors.New("rejected")
	})

	assert.EqualError(t, err, "rejected")
	assert.Equal(t, []string{"queued", "command", "follow-up"}, order)
}
