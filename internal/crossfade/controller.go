// Package crossfade fades the active buffer out while the preloaded inactive
// one fades in, in a fixed number of linear steps.
package crossfade

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/encore/internal/eventloop"
	"github.com/llehouerou/encore/internal/player"
)

// Steps is the number of volume steps in one fade.
const Steps = 50

var (
	// ErrResourceUnavailable means a buffer is missing or the next track is
	// not preloaded; nothing was changed.
	ErrResourceUnavailable = errors.New("crossfade buffers unavailable")
	ErrAlreadyFading       = errors.New("crossfade already in progress")
)

// Buffers is the part of player.Pair a fade drives.
type Buffers interface {
	Ready() bool
	PlayInactive() error
	StopActive()
	SwitchActive()
	SetAudioVolume(r player.Role, level float64)
}

// Controller runs one fade at a time on the event loop.
type Controller struct {
	buffers Buffers
	runner  eventloop.Runner
	logger  zerolog.Logger

	fading     bool
	paused     bool
	step       int
	target     float64
	interval   time.Duration
	onComplete func()
	stop       func()
	gen        uint64 // bumped whenever the timer stops so stale ticks are dropped
}

func New(buffers Buffers, runner eventloop.Runner, logger zerolog.Logger) *Controller {
	return &Controller{
		buffers: buffers,
		runner:  runner,
		logger:  logger.With().Str("component", "crossfade").Logger(),
	}
}

// Volumes returns the outgoing and incoming volume at step k.
func Volumes(target float64, k int) (out, in float64) {
	frac := float64(k) / Steps
	out = max(0, target-target*frac)
	in = min(target, target*frac)
	return out, in
}

// Start plays the inactive buffer and fades over fade. onComplete runs on
// the loop after the buffers have been switched.
func (c *Controller) Start(target float64, fade time.Duration, onComplete func()) error {
	if c.fading {
		return ErrAlreadyFading
	}
	if c.buffers == nil || !c.buffers.Ready() {
		return ErrResourceUnavailable
	}

	c.buffers.SetAudioVolume(player.Inactive, 0)
	if err := c.buffers.PlayInactive(); err != nil {
		c.reset()
		return err
	}

	c.fading = true
	c.step = 0
	c.target = target
	c.interval = max(fade/Steps, time.Millisecond)
	c.onComplete = onComplete
	c.schedule()

	c.logger.Debug().
		Dur("fade", fade).
		Float64("target", target).
		Msg("crossfade started")
	return nil
}

func (c *Controller) schedule() {
	c.gen++
	gen := c.gen
	c.stop = c.runner.Every(c.interval, func() { c.tick(gen) })
}

func (c *Controller) tick(gen uint64) {
	if gen != c.gen || !c.fading || c.paused {
		return
	}

	c.step++
	out, in := Volumes(c.target, c.step)
	c.buffers.SetAudioVolume(player.Active, out)
	c.buffers.SetAudioVolume(player.Inactive, in)

	if c.step >= Steps {
		c.finish()
	}
}

func (c *Controller) finish() {
	c.stopTimer()
	c.buffers.StopActive()
	c.buffers.SwitchActive()

	done := c.onComplete
	c.reset()
	c.logger.Debug().Msg("crossfade complete")

	if done != nil {
		done()
	}
}

// Clear cancels any fade in progress. The buffers are left as they are; the
// caller undoes the partial fade. Safe to call when idle.
func (c *Controller) Clear() {
	if !c.fading {
		return
	}
	c.logger.Debug().Int("step", c.step).Msg("crossfade cleared")
	c.stopTimer()
	c.reset()
}

// Pause freezes the fade at its current step.
func (c *Controller) Pause() {
	if !c.fading || c.paused {
		return
	}
	c.paused = true
	c.stopTimer()
}

// Resume continues a paused fade.
func (c *Controller) Resume() {
	if !c.fading || !c.paused {
		return
	}
	c.paused = false
	c.schedule()
}

func (c *Controller) IsCrossfading() bool {
	return c.fading
}

// Step returns the current step, 0 when idle.
func (c *Controller) Step() int {
	return c.step
}

func (c *Controller) stopTimer() {
	c.gen++
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

func (c *Controller) reset() {
	c.fading = false
	c.paused = false
	c.step = 0
	c.target = 0
	c.onComplete = nil
}
