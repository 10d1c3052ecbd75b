package playback

import (
	"github.com/llehouerou/encore/internal/crossfade"
	"github.com/llehouerou/encore/internal/player"
	"github.com/llehouerou/encore/internal/playlist"
)

// handleEvent reacts to a buffer event. gen is the load generation the
// event was emitted under; events from an earlier load are dropped.
func (o *Orchestrator) handleEvent(gen uint64, e player.Event) {
	if o.closed.Load() || gen != o.gen {
		return
	}

	if o.mode == ModeRadio {
		o.radio.HandleEvent(e)
		if e.Type == player.EventTimeUpdate {
			o.position = e.Position
			o.emitPosition()
		}
		return
	}

	switch e.Type {
	case player.EventTimeUpdate:
		o.onTimeUpdate(e)
	case player.EventDurationChange:
		o.duration = e.Duration
		o.tracker.SetDuration(e.Duration)
		o.emitPosition()
	case player.EventEnded:
		if e.Active {
			o.onEnded()
		}
	case player.EventError:
		o.onBufferError(e)
	case player.EventWaiting, player.EventStalled:
		o.logger.Debug().Stringer("event", e.Type).Bool("active", e.Active).Msg("buffering")
	}
}

func (o *Orchestrator) onTimeUpdate(e player.Event) {
	o.position = e.Position
	if e.Duration > 0 {
		o.duration = e.Duration
	}
	o.emitPosition()

	if o.current == nil || o.fader.IsCrossfading() {
		return
	}
	o.maybePreload()
	o.maybeCrossfade()
}

// maybePreload loads the next entry muted into the inactive buffer once the
// fade window is near.
func (o *Orchestrator) maybePreload() {
	next := o.queue.Peek()
	if next == nil || !o.xfade.Enabled || o.queue.Repeat() == playlist.RepeatOne {
		o.dropPreload()
		return
	}
	if o.preloadedID == next.ID {
		return
	}
	o.dropPreload()

	if o.duration <= 0 || o.duration-o.position > o.xfade.Duration+preloadLead {
		return
	}

	// Mark even on failure so a broken track is not retried on every update.
	o.preloadedID = next.ID
	url, err := o.streams.StreamURL(next.ID)
	if err != nil {
		o.logger.Warn().Err(err).Str("track", next.ID).Msg("preload failed")
		return
	}
	o.pair.LoadInactive(url)
	o.logger.Debug().Str("track", next.ID).Msg("preloaded")
}

func (o *Orchestrator) dropPreload() {
	if o.preloadedID == "" {
		return
	}
	o.pair.StopInactive()
	o.preloadedID = ""
}

func (o *Orchestrator) maybeCrossfade() {
	if o.fadeStarted {
		return
	}
	next := o.queue.Peek()
	fire := crossfade.ShouldStart(crossfade.Conditions{
		Enabled:  o.xfade.Enabled,
		Fading:   o.fader.IsCrossfading(),
		Radio:    o.mode == ModeRadio,
		Repeat:   o.queue.Repeat(),
		HasNext:  next != nil,
		Duration: o.duration,
		Position: o.position,
		Fade:     o.xfade.Duration,
	})
	if !fire {
		return
	}
	o.fadeStarted = true

	if o.preloadedID != next.ID {
		o.logger.Debug().Str("next", next.ID).Msg("next track not preloaded, no crossfade")
		o.metrics.Crossfade("failed")
		return
	}

	target := o.gain.EffectiveVolume(next)
	if err := o.fader.Start(target, o.xfade.Duration, o.completeCrossfade); err != nil {
		o.logger.Warn().Err(err).Msg("crossfade not started")
		o.metrics.Crossfade("failed")
		o.dropPreload()
		return
	}
	o.gain.Hold()
	if o.state == StatePaused {
		o.fader.Pause()
		o.pair.PauseInactive()
	}
}

// completeCrossfade runs after the fader switched buffers. The incoming
// entry becomes current without a new load.
func (o *Orchestrator) completeCrossfade() {
	prev := o.current
	prevIndex := o.queue.CurrentIndex()
	o.tracker.EndAt(false, o.duration)

	next := o.queue.MoveToNext()
	o.gain.Release()
	o.gen++
	o.preloadedID = ""
	o.fadeStarted = false
	o.position = 0
	o.metrics.Crossfade("completed")

	if next == nil {
		// The queue lost its next entry mid-fade; the audio already switched.
		o.logger.Warn().Msg("crossfade completed without a next entry")
		o.stop(false)
		o.publish()
		return
	}

	track := *next
	o.current = &track
	o.duration = track.Duration
	if d := o.pair.Duration(); d > 0 {
		o.duration = d
	}
	o.gain.Apply(&track)
	o.tracker.Start(track, o.sessionContext(), o.source)

	o.logger.Info().Str("track", track.ID).Int("index", o.queue.CurrentIndex()).Msg("crossfaded")
	o.emitTrack(prev, prevIndex, true)
	o.emitPosition()
	o.persistQueue()
	o.publish()
}

// onEnded handles a natural end of the active buffer.
func (o *Orchestrator) onEnded() {
	if o.fader.IsCrossfading() || o.current == nil {
		return
	}

	switch {
	case o.queue.Repeat() == playlist.RepeatOne:
		o.tracker.EndAt(false, o.duration)
		o.tracker.Start(*o.current, o.sessionContext(), o.source)
		o.fadeStarted = false
		o.position = 0
		if err := o.pair.Seek(0); err != nil {
			o.fail("seek", o.current.ID, err)
		}
		if err := o.pair.PlayActive(); err != nil {
			o.fail("play", o.current.ID, err)
			o.setState(StatePaused)
		}
		o.emitPosition()
	case o.queue.HasNext():
		o.tracker.EndAt(false, o.duration)
		prevIndex := o.queue.CurrentIndex()
		o.queue.MoveToNext()
		_ = o.startCurrent(prevIndex, false)
	default:
		o.tracker.EndAt(false, o.duration)
		o.logger.Info().Msg("end of queue")
		o.stop(false)
	}
}

func (o *Orchestrator) onBufferError(e player.Event) {
	if !e.Active {
		// The preloaded entry failed; the fade will be skipped.
		o.logger.Warn().Err(e.Err).Msg("inactive buffer error")
		if o.fader.IsCrossfading() {
			o.cancelFade()
		} else if o.preloadedID != "" {
			o.pair.StopInactive()
		}
		return
	}
	o.cancelFade()
	o.fail("stream", o.currentID(), e.Err)
	o.setState(StatePaused)
}
