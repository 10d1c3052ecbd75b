package playback

import (
	"fmt"

	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/session"
)

// SetQueue replaces the queue and plays from start. src is attached to the
// play sessions of these tracks. An empty list stops queue playback and
// leaves a playing station alone.
func (o *Orchestrator) SetQueue(tracks []playlist.Track, start int, src session.Source) error {
	return o.exec(func() error {
		prevIndex := o.queue.CurrentIndex()
		o.source = src
		o.queue.SetQueue(tracks, start)
		o.history.Push(o.queue.Tracks())
		o.emitQueue()

		if o.queue.IsEmpty() {
			if o.mode == ModeQueue {
				o.stop(true)
			}
			prev := o.current
			o.current = nil
			o.emitTrack(prev, prevIndex, false)
			o.persistQueue()
			return nil
		}
		return o.startCurrent(prevIndex, true)
	})
}

// AddTracks appends without touching playback.
func (o *Orchestrator) AddTracks(tracks ...playlist.Track) error {
	return o.exec(func() error {
		if len(tracks) == 0 {
			return nil
		}
		wasEmpty := o.queue.IsEmpty()
		o.queue.Add(tracks...)
		if wasEmpty {
			o.current = copyTrack(o.queue.Current())
		}
		o.queueChanged()
		return nil
	})
}

// Remove deletes the entry at index. Removing the current entry plays the
// entry that takes its place, or stops when the queue becomes empty.
func (o *Orchestrator) Remove(index int) error {
	return o.exec(func() error {
		if index < 0 || index >= o.queue.Len() {
			return fmt.Errorf("remove %d: %w", index, ErrIndexOutOfRange)
		}
		prevIndex := o.queue.CurrentIndex()
		removedCurrent := o.queue.Remove(index)
		o.queueChanged()

		if !removedCurrent {
			return nil
		}
		if o.mode == ModeRadio || o.state == StateStopped {
			prev := o.current
			o.current = copyTrack(o.queue.Current())
			o.emitTrack(prev, prevIndex, false)
			return nil
		}
		if o.queue.IsEmpty() {
			prev := o.current
			o.stop(true)
			o.current = nil
			o.emitTrack(prev, prevIndex, false)
			return nil
		}
		return o.startCurrent(prevIndex, true)
	})
}

// Move relocates an entry; the current entry stays current.
func (o *Orchestrator) Move(from, to int) error {
	return o.exec(func() error {
		if !o.queue.Move(from, to) {
			return fmt.Errorf("move %d to %d: %w", from, to, ErrIndexOutOfRange)
		}
		o.queueChanged()
		return nil
	})
}

// ClearQueue stops playback and empties the queue.
func (o *Orchestrator) ClearQueue() error {
	return o.exec(func() error {
		prevIndex := o.queue.CurrentIndex()
		prev := o.current
		if o.mode == ModeQueue {
			o.stop(true)
		}
		o.queue.Clear()
		o.current = nil
		o.queueChanged()
		o.emitTrack(prev, prevIndex, false)
		return nil
	})
}

// Undo restores the previous queue contents. The playing entry keeps
// playing; when it is not part of the restored queue the index moves to 0.
func (o *Orchestrator) Undo() bool {
	restored := false
	_ = o.exec(func() error {
		tracks, ok := o.history.Undo()
		if ok {
			o.restoreTracks(tracks)
			restored = true
		}
		return nil
	})
	return restored
}

func (o *Orchestrator) Redo() bool {
	restored := false
	_ = o.exec(func() error {
		tracks, ok := o.history.Redo()
		if ok {
			o.restoreTracks(tracks)
			restored = true
		}
		return nil
	})
	return restored
}

func (o *Orchestrator) restoreTracks(tracks []playlist.Track) {
	start := 0
	if o.current != nil {
		for i, t := range tracks {
			if t.ID == o.current.ID {
				start = i
				break
			}
		}
	}
	o.queue.SetQueue(tracks, start)
	if o.queue.IsEmpty() && o.mode == ModeQueue {
		o.stop(true)
		o.current = nil
	}
	o.emitQueue()
	o.reconcileNext()
	o.persistQueue()
}

func (o *Orchestrator) SetRepeatMode(mode playlist.RepeatMode) {
	_ = o.exec(func() error {
		o.queue.SetRepeat(mode)
		o.modeChanged()
		return nil
	})
}

func (o *Orchestrator) CycleRepeatMode() playlist.RepeatMode {
	var mode playlist.RepeatMode
	_ = o.exec(func() error {
		mode = o.queue.CycleRepeatMode()
		o.modeChanged()
		return nil
	})
	return mode
}

func (o *Orchestrator) SetShuffle(enabled bool) {
	_ = o.exec(func() error {
		o.queue.SetShuffle(enabled)
		o.modeChanged()
		return nil
	})
}

func (o *Orchestrator) ToggleShuffle() bool {
	var on bool
	_ = o.exec(func() error {
		on = o.queue.ToggleShuffle()
		o.modeChanged()
		return nil
	})
	return on
}

// queueChanged records a mutation of the queue contents.
func (o *Orchestrator) queueChanged() {
	o.history.Push(o.queue.Tracks())
	o.emitQueue()
	o.reconcileNext()
	o.persistQueue()
}

func (o *Orchestrator) modeChanged() {
	o.emitMode()
	o.reconcileNext()
	o.persistQueue()
}

// reconcileNext drops a preload or a running fade whose incoming entry is
// no longer the next one.
func (o *Orchestrator) reconcileNext() {
	if o.preloadedID == "" {
		return
	}
	next := o.queue.Peek()
	if next != nil && next.ID == o.preloadedID && o.queue.Repeat() != playlist.RepeatOne {
		return
	}
	if o.fader.IsCrossfading() {
		o.logger.Debug().Msg("next entry changed during crossfade")
		o.cancelFade()
		return
	}
	o.dropPreload()
	o.fadeStarted = false
}
