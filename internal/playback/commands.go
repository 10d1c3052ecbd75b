package playback

import (
	"fmt"
	"time"

	"github.com/llehouerou/encore/internal/player"
)

// Play starts the current entry, or resumes it when paused. In radio mode
// it resumes the station.
func (o *Orchestrator) Play() error {
	return o.exec(o.play)
}

// Resume continues paused playback. It is Play under another name for
// callers that mirror a pause.
func (o *Orchestrator) Resume() error {
	return o.exec(o.play)
}

func (o *Orchestrator) Pause() error {
	return o.exec(func() error {
		o.pause()
		return nil
	})
}

func (o *Orchestrator) Toggle() error {
	return o.exec(func() error {
		if o.state == StatePlaying {
			o.pause()
			return nil
		}
		return o.play()
	})
}

// Stop stops playback and keeps the current entry.
func (o *Orchestrator) Stop() error {
	return o.exec(func() error {
		if o.mode == ModeRadio {
			o.leaveRadio()
			o.setState(StateStopped)
			return nil
		}
		o.stop(false)
		return nil
	})
}

// Next skips to the following entry. At the end of the queue without
// repeat it does nothing.
func (o *Orchestrator) Next() error {
	return o.exec(func() error {
		if o.mode == ModeRadio {
			return &StateError{Op: "next", Mode: ModeRadio}
		}
		prevIndex := o.queue.CurrentIndex()
		if o.queue.MoveToNext() == nil {
			return nil
		}
		return o.startCurrent(prevIndex, true)
	})
}

// Previous restarts the entry when more than three seconds in, otherwise
// goes back one entry. At the start of the queue it restarts.
func (o *Orchestrator) Previous() error {
	return o.exec(func() error {
		if o.mode == ModeRadio {
			return &StateError{Op: "previous", Mode: ModeRadio}
		}
		if o.queue.IsEmpty() {
			return ErrEmptyQueue
		}
		if o.state.IsActive() && o.pair.Position() > restartThreshold {
			return o.seekTo(0)
		}
		prevIndex := o.queue.CurrentIndex()
		if o.queue.MoveToPrevious() == nil {
			if o.state.IsActive() {
				return o.seekTo(0)
			}
			return o.startCurrent(prevIndex, false)
		}
		return o.startCurrent(prevIndex, true)
	})
}

// Seek moves relative to the current position, clamped to the track.
func (o *Orchestrator) Seek(delta time.Duration) error {
	return o.exec(func() error {
		target := max(o.pair.Position()+delta, 0)
		if d := o.pair.Duration(); d > 0 {
			target = min(target, d)
		}
		return o.seekTo(target)
	})
}

func (o *Orchestrator) SeekTo(position time.Duration) error {
	return o.exec(func() error {
		return o.seekTo(max(position, 0))
	})
}

// JumpTo plays the entry at index, leaving radio if needed.
func (o *Orchestrator) JumpTo(index int) error {
	return o.exec(func() error {
		prevIndex := o.queue.CurrentIndex()
		if o.queue.JumpTo(index) == nil {
			return fmt.Errorf("jump to %d: %w", index, ErrIndexOutOfRange)
		}
		return o.startCurrent(prevIndex, true)
	})
}

func (o *Orchestrator) SetVolume(level float64) error {
	return o.exec(func() error {
		v := o.gain.SetUserVolume(level)
		if o.store == nil {
			return nil
		}
		if err := o.store.SaveVolume(v, false); err != nil {
			o.logger.Warn().Err(err).Msg("saving volume")
		}
		return nil
	})
}

func (o *Orchestrator) play() error {
	if o.mode == ModeRadio {
		if err := o.radio.Resume(); err != nil {
			return err
		}
		o.setState(StatePlaying)
		return nil
	}

	switch o.state {
	case StatePlaying:
		return nil
	case StatePaused:
		if o.current != nil && o.pair.URL(player.Active) != "" {
			return o.resume()
		}
	}
	if o.queue.IsEmpty() {
		return ErrEmptyQueue
	}
	return o.startCurrent(o.queue.CurrentIndex(), false)
}

func (o *Orchestrator) resume() error {
	if err := o.pair.PlayActive(); err != nil {
		o.fail("play", o.current.ID, err)
		return err
	}
	if o.fader.IsCrossfading() {
		if err := o.pair.PlayInactive(); err != nil {
			o.logger.Warn().Err(err).Msg("incoming track did not resume, cancelling fade")
			o.cancelFade()
		} else {
			o.fader.Resume()
		}
	}
	if _, open := o.tracker.Current(); !open {
		o.tracker.Start(*o.current, o.sessionContext(), o.source)
	}
	o.setState(StatePlaying)
	return nil
}

func (o *Orchestrator) pause() {
	if o.mode == ModeRadio {
		o.radio.Pause()
		o.setState(StatePaused)
		return
	}
	if o.state != StatePlaying {
		return
	}
	if o.fader.IsCrossfading() {
		o.fader.Pause()
		o.pair.PauseBoth()
	} else {
		o.pair.PauseActive()
	}
	o.setState(StatePaused)
}

// stop ends the session and releases both buffers. The queue is untouched.
func (o *Orchestrator) stop(skipped bool) {
	o.cancelFade()
	o.tracker.End(skipped)
	o.pair.StopBoth()
	o.gen++
	o.preloadedID = ""
	o.fadeStarted = false
	o.position = 0
	o.setState(StateStopped)
	o.emitPosition()
}

func (o *Orchestrator) seekTo(pos time.Duration) error {
	if o.mode == ModeRadio {
		return &StateError{Op: "seek", Mode: ModeRadio}
	}
	if !o.state.IsActive() {
		return fmt.Errorf("seek while stopped: %w", ErrInvalidState)
	}
	o.cancelFade()
	if err := o.pair.Seek(pos); err != nil {
		o.fail("seek", o.currentID(), err)
		return err
	}
	o.position = pos
	o.fadeStarted = false
	o.emitPosition()
	return nil
}

// startCurrent loads and plays the queue's current entry. prevIndex and
// o.current describe what was playing; skipped says how its session ends.
func (o *Orchestrator) startCurrent(prevIndex int, skipped bool) error {
	o.leaveRadio()
	o.cancelFade()
	o.tracker.End(skipped)

	prev := o.current
	t := o.queue.Current()
	if t == nil {
		o.current = nil
		o.stop(false)
		o.emitTrack(prev, prevIndex, false)
		return ErrEmptyQueue
	}
	track := *t

	o.gen++
	o.current = &track
	o.position = 0
	o.duration = track.Duration
	o.fadeStarted = false

	url, err := o.streams.StreamURL(track.ID)
	if err != nil {
		o.pair.StopBoth()
		o.preloadedID = ""
		o.emitTrack(prev, prevIndex, false)
		o.fail("load", track.ID, err)
		o.setState(StatePaused)
		o.persistQueue()
		return err
	}

	if o.preloadedID == track.ID && o.pair.Preloaded() {
		o.pair.StopActive()
		o.pair.SwitchActive()
	} else {
		o.pair.StopInactive()
		o.pair.LoadActive(url)
	}
	o.preloadedID = ""
	o.gain.Apply(&track)

	o.logger.Info().Str("track", track.ID).Int("index", o.queue.CurrentIndex()).Msg("playing")
	o.emitTrack(prev, prevIndex, false)
	o.emitPosition()
	o.persistQueue()

	if err := o.pair.PlayActive(); err != nil {
		o.fail("play", track.ID, err)
		o.setState(StatePaused)
		return err
	}
	o.tracker.Start(track, o.sessionContext(), o.source)
	o.setState(StatePlaying)
	return nil
}

func (o *Orchestrator) currentID() string {
	if o.current == nil {
		return ""
	}
	return o.current.ID
}

// cancelFade undoes a fade in progress: the incoming buffer is released
// and the outgoing one gets its normalized volume back.
func (o *Orchestrator) cancelFade() {
	if !o.fader.IsCrossfading() {
		return
	}
	o.fader.Clear()
	o.pair.StopInactive()
	o.preloadedID = ""
	o.fadeStarted = false
	o.gain.Release()
	o.gain.Reapply()
	o.metrics.Crossfade("cancelled")
}
