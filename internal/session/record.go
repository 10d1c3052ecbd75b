package session

import (
	"context"
	"errors"
	"time"

	"github.com/llehouerou/encore/internal/playlist"
)

// Context describes how playback of a track was initiated.
type Context string

const (
	ContextDirect  Context = "direct"
	ContextShuffle Context = "shuffle"
)

// Source optionally identifies the album or playlist a track was played from.
type Source struct {
	ID   string
	Type string // "album", "playlist", "artist"
}

// PlaySession is one continuous listen of a single track.
type PlaySession struct {
	ID        string
	Track     playlist.Track
	StartedAt time.Time
	Context   Context
	Source    Source
	Duration  time.Duration
}

// PlayRecord is emitted when a track was listened to long enough.
type PlayRecord struct {
	SessionID      string
	Track          playlist.Track
	StartedAt      time.Time
	CompletionRate float64
	TotalDuration  time.Duration
	Context        Context
	Source         Source
}

// SkipRecord is emitted whenever the user skips a track.
type SkipRecord struct {
	SessionID     string
	Track         playlist.Track
	StartedAt     time.Time
	ListenedTime  time.Duration
	TotalDuration time.Duration
	Context       Context
	Source        Source
}

// Sink receives listening analytics. Implementations may block on I/O;
// the tracker calls them off the event loop.
type Sink interface {
	RecordPlay(ctx context.Context, rec PlayRecord) error
	RecordSkip(ctx context.Context, rec SkipRecord) error
}

// NowPlayingSink is implemented by sinks that also want to know when a
// session opens.
type NowPlayingSink interface {
	NowPlaying(ctx context.Context, s PlaySession) error
}

// MultiSink fans records out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) RecordPlay(ctx context.Context, rec PlayRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordPlay(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) RecordSkip(ctx context.Context, rec SkipRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordSkip(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) NowPlaying(ctx context.Context, s PlaySession) error {
	var errs []error
	for _, sink := range m {
		np, ok := sink.(NowPlayingSink)
		if !ok {
			continue
		}
		if err := np.NowPlaying(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
