package notify

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/encore/internal/errmsg"
	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/playlist"
)

const (
	trackTimeout = 5000
	errorTimeout = 8000
	coverTimeout = 3 * time.Second
)

// Events are the playback channels a Watcher reads.
type Events struct {
	Tracks <-chan playback.TrackChange
	Errors <-chan playback.ErrorEvent
	Done   <-chan struct{}
}

// EventsFrom selects the channels of a playback subscription.
func EventsFrom(sub *playback.Subscription) Events {
	return Events{Tracks: sub.TrackChanged, Errors: sub.Error, Done: sub.Done}
}

// Watcher shows a notification for each new track and for playback errors.
// Track notifications replace each other instead of stacking.
type Watcher struct {
	notifier Notifier
	covers   *CoverCache
	logger   zerolog.Logger
	lastID   uint32
}

func NewWatcher(n Notifier, covers *CoverCache, logger zerolog.Logger) *Watcher {
	return &Watcher{
		notifier: n,
		covers:   covers,
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// Run handles events until ctx is done or the subscription closes.
func (w *Watcher) Run(ctx context.Context, ev Events) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ev.Done:
			return
		case tc := <-ev.Tracks:
			w.track(ctx, tc)
		case e := <-ev.Errors:
			w.error(e)
		}
	}
}

func (w *Watcher) track(ctx context.Context, tc playback.TrackChange) {
	if tc.Current == nil {
		return
	}
	t := *tc.Current

	icon := ""
	if w.covers != nil && t.AlbumID != "" {
		cctx, cancel := context.WithTimeout(ctx, coverTimeout)
		path, err := w.covers.Path(cctx, t.AlbumID)
		cancel()
		if err != nil {
			w.logger.Debug().Err(err).Str("album", t.AlbumID).Msg("cover unavailable")
		}
		icon = path
	}

	id, err := w.notifier.Notify(Notification{
		Title:      t.Title,
		Body:       trackBody(t),
		Icon:       icon,
		Category:   "x-gnome.music",
		Timeout:    trackTimeout,
		ReplacesID: w.lastID,
		Urgency:    UrgencyLow,
		Transient:  true,
	})
	if err != nil {
		w.logger.Debug().Err(err).Msg("track notification failed")
		return
	}
	w.lastID = id
}

func (w *Watcher) error(e playback.ErrorEvent) {
	_, err := w.notifier.Notify(Notification{
		Title:   "Playback error",
		Body:    errmsg.Format(errmsg.ForPlayback(e.Operation), e.Err),
		Icon:    "dialog-error",
		Timeout: errorTimeout,
		Urgency: UrgencyCritical,
	})
	if err != nil {
		w.logger.Debug().Err(err).Msg("error notification failed")
	}
}

func trackBody(t playlist.Track) string {
	parts := make([]string, 0, 2)
	if t.Artist != "" {
		parts = append(parts, t.Artist)
	}
	if t.AlbumName != "" {
		parts = append(parts, t.AlbumName)
	}
	return strings.Join(parts, " - ")
}
