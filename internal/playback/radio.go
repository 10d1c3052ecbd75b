package playback

import (
	"github.com/llehouerou/encore/internal/crossfade"
	"github.com/llehouerou/encore/internal/loudness"
	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/state"
)

// PlayStation switches to radio. The queue keeps its position and the
// open play session is closed as a skip.
func (o *Orchestrator) PlayStation(st radio.Station) error {
	return o.exec(func() error {
		if st.StreamURL() == "" {
			return radio.ErrNoStream
		}
		o.cancelFade()
		o.tracker.End(true)
		o.preloadedID = ""
		o.fadeStarted = false

		o.pair.StopBoth()
		o.gen++
		if err := o.radio.Play(st); err != nil {
			return err
		}
		o.position = 0
		o.duration = 0
		o.gain.Apply(nil)

		if o.mode != ModeRadio {
			o.mode = ModeRadio
			o.emitSource()
		}
		o.setState(StatePlaying)

		if o.store != nil {
			if err := o.store.SaveLastStation(state.StationState{ID: st.ID, Name: st.Name, URL: st.URL}); err != nil {
				o.logger.Warn().Err(err).Msg("saving last station")
			}
		}
		return nil
	})
}

// StopRadio leaves radio mode. The queue is left stopped on its entry.
func (o *Orchestrator) StopRadio() error {
	return o.exec(func() error {
		if o.mode != ModeRadio {
			return nil
		}
		o.leaveRadio()
		o.setState(StateStopped)
		return nil
	})
}

// leaveRadio tears the station down and returns to queue mode.
func (o *Orchestrator) leaveRadio() {
	if o.mode != ModeRadio {
		return
	}
	o.gen++
	o.radio.Stop()
	o.mode = ModeQueue
	o.position = 0
	o.duration = 0
	o.emitSource()
	o.publishPresence()
}

func (o *Orchestrator) onRadioChange(st radio.Status) {
	o.metrics.RadioSignal(st.Signal.String())
	o.broadcast(func(sub *Subscription) { sub.sendRadio(RadioChange{Status: st}) })

	if !st.Active || o.mode != ModeRadio {
		return
	}
	if st.Signal == radio.SignalError {
		o.fail("radio", st.Station.ID, radio.ErrStream)
		o.setState(StatePaused)
	}
}

// SetCrossfade applies new crossfade preferences. Disabling does not cut a
// fade already running.
func (o *Orchestrator) SetCrossfade(s crossfade.Settings) {
	_ = o.exec(func() error {
		o.xfade = s.Normalize()
		if !o.xfade.Enabled && !o.fader.IsCrossfading() {
			o.dropPreload()
			o.fadeStarted = false
		}
		o.logger.Info().Bool("enabled", o.xfade.Enabled).Dur("duration", o.xfade.Duration).Msg("crossfade settings")
		return nil
	})
}

// SetNormalization applies new loudness preferences. During a fade the new
// gain takes effect when the fade ends.
func (o *Orchestrator) SetNormalization(s loudness.Settings) {
	_ = o.exec(func() error {
		o.gain.SetSettings(s)
		o.logger.Info().Bool("enabled", s.Enabled).Float64("target_lufs", s.TargetLUFS).Msg("normalization settings")
		return nil
	})
}
