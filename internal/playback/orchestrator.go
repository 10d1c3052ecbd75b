package playback

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/encore/internal/crossfade"
	"github.com/llehouerou/encore/internal/eventloop"
	"github.com/llehouerou/encore/internal/loudness"
	"github.com/llehouerou/encore/internal/metrics"
	"github.com/llehouerou/encore/internal/player"
	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/presence"
	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/session"
	"github.com/llehouerou/encore/internal/settings"
	"github.com/llehouerou/encore/internal/state"
)

const (
	// restartThreshold is how far into a track Previous restarts it instead
	// of going back.
	restartThreshold = 3 * time.Second
	// preloadLead is how long before the fade window the next track is loaded.
	preloadLead = 15 * time.Second

	historySize = 50
)

// StreamResolver turns a track ID into a playable URL.
type StreamResolver interface {
	StreamURL(trackID string) (string, error)
}

// PresenceNotifier receives listening status. presence.Notifier implements it.
type PresenceNotifier interface {
	Update(p presence.Presence)
}

// Store persists what should survive a restart. state.Manager implements it.
type Store interface {
	SaveQueue(st state.QueueState)
	SaveVolume(volume float64, muted bool) error
	SaveLastStation(s state.StationState) error
}

// Deps are the collaborators of an Orchestrator. Buffers, Runner and
// Streams are required.
type Deps struct {
	Buffers  *player.Pair
	Runner   eventloop.Executor
	Streams  StreamResolver
	Queue    *playlist.Queue
	Sink     session.Sink
	Presence PresenceNotifier
	Store    Store
	Radio    radio.Options
	Settings settings.Settings
	Volume   float64

	// Authenticated gates presence publishing. nil means always.
	Authenticated func() bool

	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// Verify Orchestrator implements Service at compile time.
var _ Service = (*Orchestrator)(nil)

// Orchestrator coordinates the buffers, queue, crossfade, radio,
// normalization and session tracking. Every field below mu is owned by the
// event loop.
type Orchestrator struct {
	pair    *player.Pair
	runner  eventloop.Executor
	streams StreamResolver
	queue   *playlist.Queue
	history *playlist.History
	fader   *crossfade.Controller
	gain    *loudness.Engine
	radio   *radio.Controller
	tracker *session.Tracker

	presence      PresenceNotifier
	store         Store
	authenticated func() bool
	metrics       *metrics.Metrics
	logger        zerolog.Logger

	xfade        crossfade.Settings
	state        State
	mode         Mode
	current      *playlist.Track
	source       session.Source
	position     time.Duration
	duration     time.Duration
	gen          uint64 // bumped on every load so stale buffer events are dropped
	fadeStarted  bool
	preloadedID  string
	lastPresence *presence.Presence

	mu   sync.RWMutex
	snap snapshot

	subsMu sync.Mutex
	subs   []*Subscription
	closed atomic.Bool
}

// snapshot is what queries read from other goroutines.
type snapshot struct {
	state         State
	mode          Mode
	position      time.Duration
	duration      time.Duration
	current       *playlist.Track
	tracks        []playlist.Track
	index         int
	repeat        playlist.RepeatMode
	shuffle       bool
	volume        float64
	radio         radio.Status
	crossfade     crossfade.Settings
	normalization loudness.Settings
}

// New wires the orchestrator to its buffers. It must be called before the
// runner starts executing work.
func New(d Deps) *Orchestrator {
	q := d.Queue
	if q == nil {
		q = playlist.NewQueue()
	}
	logger := d.Logger.With().Str("component", "playback").Logger()

	o := &Orchestrator{
		pair:          d.Buffers,
		runner:        d.Runner,
		streams:       d.Streams,
		queue:         q,
		history:       playlist.NewHistory(historySize),
		fader:         crossfade.New(d.Buffers, d.Runner, d.Logger),
		gain:          loudness.New(d.Buffers, d.Settings.Normalization, d.Volume),
		radio:         radio.New(d.Buffers, d.Radio, d.Logger),
		presence:      d.Presence,
		store:         d.Store,
		authenticated: d.Authenticated,
		metrics:       d.Metrics,
		logger:        logger,
		xfade:         d.Settings.Crossfade.Normalize(),
	}
	o.tracker = session.NewTracker(d.Sink, d.Buffers.Position, d.Logger, d.Metrics)
	o.history.Push(q.Tracks())
	if t := q.Current(); t != nil {
		o.current = copyTrack(t)
	}

	// Sources emit from inside their own method calls; handling is deferred
	// to the loop so a handler never runs inside another command.
	d.Buffers.OnEvent(func(e player.Event) {
		gen := o.gen
		o.runner.Post(func() {
			o.handleEvent(gen, e)
			o.publish()
		})
	})
	o.radio.OnChange(o.onRadioChange)

	o.gain.Apply(nil)
	o.publish()
	return o
}

// exec runs fn on the loop and refreshes the query snapshot.
func (o *Orchestrator) exec(fn func() error) error {
	if o.closed.Load() {
		return ErrClosed
	}
	return o.runner.Do(func() error {
		err := fn()
		o.publish()
		return err
	})
}

func (o *Orchestrator) publish() {
	s := snapshot{
		state:         o.state,
		mode:          o.mode,
		position:      o.position,
		duration:      o.duration,
		tracks:        o.queue.Tracks(),
		index:         o.queue.CurrentIndex(),
		repeat:        o.queue.Repeat(),
		shuffle:       o.queue.Shuffle(),
		volume:        o.gain.UserVolume(),
		radio:         o.radio.Status(),
		crossfade:     o.xfade,
		normalization: o.gain.Settings(),
	}
	if o.mode == ModeQueue && o.current != nil {
		s.current = copyTrack(o.current)
	}

	o.mu.Lock()
	o.snap = s
	o.mu.Unlock()
}

func (o *Orchestrator) read() snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snap
}

// Subscribe creates a new event subscription.
func (o *Orchestrator) Subscribe() *Subscription {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	sub := newSubscription()
	if o.closed.Load() {
		sub.close()
		return sub
	}
	o.subs = append(o.subs, sub)
	return sub
}

func (o *Orchestrator) broadcast(fn func(*Subscription)) {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for _, sub := range o.subs {
		fn(sub)
	}
}

// Close stops playback, closes the open session, flushes the queue and
// signals every subscriber. Further commands return ErrClosed.
func (o *Orchestrator) Close() error {
	if !o.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := o.runner.Do(func() error {
		o.cancelFade()
		o.tracker.End(false)
		if o.radio.IsActive() {
			o.radio.Stop()
		}
		o.pair.StopBoth()
		o.persistQueue()
		return nil
	})
	if err != nil {
		o.logger.Debug().Err(err).Msg("loop already stopped, buffers left as is")
	}

	o.subsMu.Lock()
	for _, sub := range o.subs {
		sub.close()
	}
	o.subs = nil
	o.subsMu.Unlock()

	o.tracker.Wait()
	return nil
}

// Restore loads a saved queue without starting playback.
func (o *Orchestrator) Restore(qs state.QueueState) error {
	return o.exec(func() error {
		o.queue.SetQueue(qs.Tracks, qs.CurrentIndex)
		o.queue.SetRepeat(qs.RepeatMode)
		o.queue.SetShuffle(qs.Shuffle)
		o.current = copyTrack(o.queue.Current())
		o.history = playlist.NewHistory(historySize)
		o.history.Push(o.queue.Tracks())
		o.emitQueue()
		o.emitMode()
		return nil
	})
}

// State queries read the snapshot taken after the last loop iteration.

func (o *Orchestrator) State() State { return o.read().state }

func (o *Orchestrator) Mode() Mode { return o.read().mode }

func (o *Orchestrator) Position() time.Duration { return o.read().position }

func (o *Orchestrator) Duration() time.Duration { return o.read().duration }

// CurrentTrack returns the queue entry being played, nil in radio mode.
func (o *Orchestrator) CurrentTrack() *playlist.Track { return o.read().current }

func (o *Orchestrator) Volume() float64 { return o.read().volume }

func (o *Orchestrator) RadioStatus() radio.Status { return o.read().radio }

func (o *Orchestrator) QueueCurrentIndex() int { return o.read().index }

func (o *Orchestrator) RepeatMode() playlist.RepeatMode { return o.read().repeat }

func (o *Orchestrator) Shuffle() bool { return o.read().shuffle }

func (o *Orchestrator) CrossfadeSettings() crossfade.Settings {
	return o.read().crossfade
}

func (o *Orchestrator) NormalizationSettings() loudness.Settings {
	return o.read().normalization
}

// QueueTracks returns a copy of the queue.
func (o *Orchestrator) QueueTracks() []playlist.Track {
	return append([]playlist.Track(nil), o.read().tracks...)
}

// Loop-side helpers

func (o *Orchestrator) setState(s State) {
	if o.state == s {
		return
	}
	prev := o.state
	o.state = s
	o.logger.Debug().Stringer("from", prev).Stringer("to", s).Msg("state changed")
	o.broadcast(func(sub *Subscription) { sub.sendState(StateChange{Previous: prev, Current: s}) })
	o.publishPresence()
}

func (o *Orchestrator) emitTrack(prev *playlist.Track, prevIndex int, crossfaded bool) {
	e := TrackChange{
		Previous:      prev,
		Current:       copyTrack(o.current),
		PreviousIndex: prevIndex,
		Index:         o.queue.CurrentIndex(),
		Crossfaded:    crossfaded,
	}
	o.broadcast(func(sub *Subscription) { sub.sendTrack(e) })
	o.publishPresence()
}

func (o *Orchestrator) emitQueue() {
	tracks := o.queue.Tracks()
	index := o.queue.CurrentIndex()
	o.broadcast(func(sub *Subscription) {
		sub.sendQueue(QueueChange{Tracks: append([]playlist.Track(nil), tracks...), Index: index})
	})
}

func (o *Orchestrator) emitMode() {
	e := ModeChange{RepeatMode: o.queue.Repeat(), Shuffle: o.queue.Shuffle()}
	o.broadcast(func(sub *Subscription) { sub.sendMode(e) })
}

func (o *Orchestrator) emitPosition() {
	pos, dur := o.position, o.duration
	o.broadcast(func(sub *Subscription) { sub.sendPosition(pos, dur) })
}

func (o *Orchestrator) emitSource() {
	e := SourceChange{Mode: o.mode}
	o.broadcast(func(sub *Subscription) { sub.sendSource(e) })
}

// fail reports an asynchronous failure and counts it.
func (o *Orchestrator) fail(op, trackID string, err error) {
	o.logger.Error().Err(err).Str("op", op).Str("track", trackID).Msg("playback failed")
	o.metrics.PlaybackError()
	e := ErrorEvent{Operation: op, TrackID: trackID, Err: err}
	o.broadcast(func(sub *Subscription) { sub.sendError(e) })
}

// publishPresence sends {playing, track} when it changed, only for queue
// playback and only while the backend session is valid.
func (o *Orchestrator) publishPresence() {
	if o.presence == nil || o.mode == ModeRadio {
		return
	}
	if o.authenticated != nil && !o.authenticated() {
		return
	}
	id := ""
	if o.current != nil {
		id = o.current.ID
	}
	p := presence.New(o.state == StatePlaying, id)
	if o.lastPresence != nil && o.lastPresence.Same(p) {
		return
	}
	o.lastPresence = &p
	o.presence.Update(p)
}

func (o *Orchestrator) persistQueue() {
	if o.store == nil {
		return
	}
	o.store.SaveQueue(state.QueueState{
		CurrentIndex: o.queue.CurrentIndex(),
		RepeatMode:   o.queue.Repeat(),
		Shuffle:      o.queue.Shuffle(),
		Tracks:       o.queue.Tracks(),
	})
}

func (o *Orchestrator) sessionContext() session.Context {
	if o.queue.Shuffle() {
		return session.ContextShuffle
	}
	return session.ContextDirect
}

func copyTrack(t *playlist.Track) *playlist.Track {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
