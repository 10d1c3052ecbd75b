// Package session records what was listened to. Each track start opens a
// session; closing it emits at most one play or skip record.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/encore/internal/metrics"
	"github.com/llehouerou/encore/internal/playlist"
)

const (
	// MinCompletionRate is the share of a track that counts as a play.
	MinCompletionRate = 0.3
	// FullCompletionRate marks a track as listened to the end.
	FullCompletionRate = 0.95

	defaultTimeout = 10 * time.Second
)

// ShouldRecordPlay reports whether a non-skipped session produces a play.
func ShouldRecordPlay(rate float64) bool {
	return rate >= MinCompletionRate || rate >= FullCompletionRate
}

// Outcome is what closing a session produced.
type Outcome int

const (
	OutcomeNone Outcome = iota // no open session
	OutcomePlay
	OutcomeSkip
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlay:
		return "play"
	case OutcomeSkip:
		return "skip"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "none"
	}
}

// Tracker holds the single open session. It is used from the event loop;
// emission happens on background goroutines and never fails playback.
type Tracker struct {
	sink     Sink
	position func() time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
	now      func() time.Time

	current *PlaySession
	wg      sync.WaitGroup
}

// NewTracker creates a tracker. position reports the active buffer's
// current time and is read when a session ends.
func NewTracker(sink Sink, position func() time.Duration, logger zerolog.Logger, m *metrics.Metrics) *Tracker {
	return &Tracker{
		sink:     sink,
		position: position,
		logger:   logger.With().Str("component", "session").Logger(),
		metrics:  m,
		timeout:  defaultTimeout,
		now:      time.Now,
	}
}

// Start opens a session for track. The caller closes any previous session first.
func (t *Tracker) Start(track playlist.Track, ctx Context, src Source) PlaySession {
	s := &PlaySession{
		ID:        uuid.NewString(),
		Track:     track,
		StartedAt: t.now(),
		Context:   ctx,
		Source:    src,
		Duration:  track.Duration,
	}
	t.current = s
	log := t.logger.With().Str("session", s.ID).Str("track", track.ID).Logger()
	log.Debug().Msg("session started")

	if np, ok := t.sink.(NowPlayingSink); ok {
		opened := *s
		t.emit(log, func(ctx context.Context) error { return np.NowPlaying(ctx, opened) })
	}
	return *s
}

// SetDuration fills in the duration when the track metadata lacked one.
func (t *Tracker) SetDuration(d time.Duration) {
	if t.current != nil && t.current.Duration <= 0 {
		t.current.Duration = d
	}
}

// Current returns the open session, if any.
func (t *Tracker) Current() (PlaySession, bool) {
	if t.current == nil {
		return PlaySession{}, false
	}
	return *t.current, true
}

// End closes the open session at the current playback position.
func (t *Tracker) End(skipped bool) Outcome {
	if t.current == nil {
		return OutcomeNone
	}
	var pos time.Duration
	if t.position != nil {
		pos = t.position()
	}
	return t.EndAt(skipped, pos)
}

// EndAt closes the open session at an explicit position. Used when the
// buffer that played the track has already been switched away.
func (t *Tracker) EndAt(skipped bool, pos time.Duration) Outcome {
	s := t.current
	if s == nil {
		return OutcomeNone
	}
	t.current = nil

	rate := completionRate(pos, s.Duration)
	listened := max(pos, 0)
	if s.Duration > 0 {
		listened = min(listened, s.Duration)
	}

	log := t.logger.With().
		Str("session", s.ID).
		Str("track", s.Track.ID).
		Float64("rate", rate).
		Bool("skipped", skipped).
		Logger()

	var outcome Outcome
	switch {
	case skipped:
		outcome = OutcomeSkip
		rec := SkipRecord{
			SessionID:     s.ID,
			Track:         s.Track,
			StartedAt:     s.StartedAt,
			ListenedTime:  listened,
			TotalDuration: s.Duration,
			Context:       s.Context,
			Source:        s.Source,
		}
		t.emit(log, func(ctx context.Context) error { return t.sink.RecordSkip(ctx, rec) })
	case ShouldRecordPlay(rate):
		outcome = OutcomePlay
		rec := PlayRecord{
			SessionID:      s.ID,
			Track:          s.Track,
			StartedAt:      s.StartedAt,
			CompletionRate: rate,
			TotalDuration:  s.Duration,
			Context:        s.Context,
			Source:         s.Source,
		}
		t.emit(log, func(ctx context.Context) error { return t.sink.RecordPlay(ctx, rec) })
	default:
		outcome = OutcomeDiscarded
	}

	log.Debug().Stringer("outcome", outcome).Msg("session ended")
	t.metrics.Session(outcome.String(), listened.Seconds())
	return outcome
}

func (t *Tracker) emit(log zerolog.Logger, send func(ctx context.Context) error) {
	if t.sink == nil {
		return
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Warn().Err(err).Msg("analytics submission dropped")
			t.metrics.AnalyticsError("session")
		}
	}()
}

// Wait blocks until in-flight submissions finish.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func completionRate(pos, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	rate := float64(pos) / float64(duration)
	return min(max(rate, 0), 1)
}
