package lastfm

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/encore/internal/metrics"
	"github.com/llehouerou/encore/internal/session"
	"github.com/llehouerou/encore/internal/state"
)

const (
	// MinTrackLength is the shortest track Last.fm accepts.
	MinTrackLength = 30 * time.Second
	// maxThreshold caps the listening time a scrobble needs.
	maxThreshold = 4 * time.Minute

	maxAttempts   = 10
	retryInterval = 5 * time.Minute
	pendingMaxAge = 14 * 24 * time.Hour
)

// Store persists scrobbles that could not be submitted. state.Manager
// implements it.
type Store interface {
	AddPendingScrobble(s state.PendingScrobble) error
	GetPendingScrobbles() ([]state.PendingScrobble, error)
	DeletePendingScrobble(id int64) error
	UpdatePendingScrobbleAttempt(id int64, errMsg string) error
	DeleteOldPendingScrobbles(maxAge time.Duration) error
}

// Eligible applies Last.fm's rule: the track is at least 30 seconds long and
// was played for half its length or four minutes, whichever comes first.
func Eligible(duration, listened time.Duration) bool {
	if duration < MinTrackLength {
		return false
	}
	return listened >= min(duration/2, maxThreshold)
}

// Sink scrobbles play records to Last.fm. Failed submissions are queued in
// the store and retried by Run. Skips are not scrobbled.
type Sink struct {
	api     API
	store   Store
	logger  zerolog.Logger
	metrics *metrics.Metrics

	// Client calls are serialized; the tracker submits from several goroutines.
	mu sync.Mutex
}

var (
	_ session.Sink           = (*Sink)(nil)
	_ session.NowPlayingSink = (*Sink)(nil)
)

func NewSink(api API, store Store, logger zerolog.Logger, m *metrics.Metrics) *Sink {
	return &Sink{
		api:     api,
		store:   store,
		logger:  logger.With().Str("component", "lastfm").Logger(),
		metrics: m,
	}
}

func toScrobble(t session.PlayRecord) ScrobbleTrack {
	return ScrobbleTrack{
		Artist:    t.Track.Artist,
		Track:     t.Track.Title,
		Album:     t.Track.AlbumName,
		Duration:  t.TotalDuration,
		Timestamp: t.StartedAt,
	}
}

// NowPlaying is best effort; errors are returned for logging only.
func (s *Sink) NowPlaying(_ context.Context, ps session.PlaySession) error {
	if !s.api.IsAuthenticated() || ps.Track.Artist == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.UpdateNowPlaying(ScrobbleTrack{
		Artist:   ps.Track.Artist,
		Track:    ps.Track.Title,
		Album:    ps.Track.AlbumName,
		Duration: ps.Duration,
	})
}

func (s *Sink) RecordPlay(_ context.Context, rec session.PlayRecord) error {
	if !s.api.IsAuthenticated() || rec.Track.Artist == "" {
		return nil
	}
	listened := time.Duration(rec.CompletionRate * float64(rec.TotalDuration))
	if !Eligible(rec.TotalDuration, listened) {
		return nil
	}

	track := toScrobble(rec)
	s.mu.Lock()
	err := s.api.Scrobble(track)
	s.mu.Unlock()
	if err == nil {
		return nil
	}

	s.metrics.AnalyticsError("lastfm")
	if s.store == nil {
		return err
	}
	if qerr := s.store.AddPendingScrobble(state.PendingScrobble{
		TrackID:      rec.Track.ID,
		Artist:       track.Artist,
		Track:        track.Track,
		Album:        track.Album,
		DurationSecs: int(track.Duration.Seconds()),
		Timestamp:    track.Timestamp,
	}); qerr != nil {
		s.logger.Warn().Err(qerr).Msg("queue failed scrobble")
		return err
	}
	s.logger.Info().Err(err).Str("track", rec.Track.ID).Msg("scrobble queued for retry")
	return nil
}

func (s *Sink) RecordSkip(context.Context, session.SkipRecord) error {
	return nil
}

// RetryResult summarizes one pass over the pending queue.
type RetryResult struct {
	Succeeded int
	Failed    int
}

// RetryPending submits queued scrobbles, dropping entries that are too old
// or failed too often.
func (s *Sink) RetryPending(ctx context.Context) (RetryResult, error) {
	var res RetryResult
	if s.store == nil || !s.api.IsAuthenticated() {
		return res, nil
	}

	if err := s.store.DeleteOldPendingScrobbles(pendingMaxAge); err != nil {
		return res, err
	}
	pending, err := s.store.GetPendingScrobbles()
	if err != nil {
		return res, err
	}

	for i := range pending {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		p := &pending[i]
		if p.Attempts >= maxAttempts {
			continue
		}

		s.mu.Lock()
		err := s.api.Scrobble(ScrobbleTrack{
			Artist:    p.Artist,
			Track:     p.Track,
			Album:     p.Album,
			Duration:  time.Duration(p.DurationSecs) * time.Second,
			Timestamp: p.Timestamp,
		})
		s.mu.Unlock()

		if err != nil {
			res.Failed++
			_ = s.store.UpdatePendingScrobbleAttempt(p.ID, err.Error())
			continue
		}
		res.Succeeded++
		_ = s.store.DeletePendingScrobble(p.ID)
	}
	return res, nil
}

// Run retries pending scrobbles immediately and then every five minutes
// until ctx is cancelled.
func (s *Sink) Run(ctx context.Context) {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		res, err := s.RetryPending(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			s.logger.Warn().Err(err).Msg("retry pending scrobbles")
		case res.Succeeded+res.Failed > 0:
			s.logger.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).
				Msg("retried pending scrobbles")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
