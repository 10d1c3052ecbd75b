// Package presence broadcasts what the user is listening to.
package presence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Presence is the listening state shared with friends.
type Presence struct {
	IsPlaying bool      `json:"isPlaying"`
	TrackID   *string   `json:"currentTrackId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds a presence; an empty trackID means nothing is loaded.
func New(playing bool, trackID string) Presence {
	p := Presence{IsPlaying: playing, UpdatedAt: time.Now().UTC()}
	if trackID != "" {
		p.TrackID = &trackID
	}
	return p
}

// Same reports whether two presences carry the same state.
func (p Presence) Same(o Presence) bool {
	if p.IsPlaying != o.IsPlaying {
		return false
	}
	if p.TrackID == nil || o.TrackID == nil {
		return p.TrackID == nil && o.TrackID == nil
	}
	return *p.TrackID == *o.TrackID
}

func (p Presence) marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Publisher delivers presence updates to one transport.
type Publisher interface {
	Publish(ctx context.Context, p Presence) error
	Close() error
}

// Notifier publishes off the caller's goroutine. Only the latest pending
// presence is kept; older unsent updates are superseded.
type Notifier struct {
	pub     Publisher
	logger  zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending *Presence
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

func NewNotifier(pub Publisher, logger zerolog.Logger) *Notifier {
	n := &Notifier{
		pub:     pub,
		logger:  logger.With().Str("component", "presence").Logger(),
		timeout: 5 * time.Second,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go n.run()
	return n
}

// Update queues p for publishing. It never blocks.
func (n *Notifier) Update(p Presence) {
	n.mu.Lock()
	n.pending = &p
	n.mu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func (n *Notifier) run() {
	defer close(n.stopped)
	for {
		select {
		case <-n.done:
			n.flush()
			return
		case <-n.wake:
			n.flush()
		}
	}
}

func (n *Notifier) flush() {
	n.mu.Lock()
	p := n.pending
	n.pending = nil
	n.mu.Unlock()
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := n.pub.Publish(ctx, *p); err != nil {
		n.logger.Warn().Err(err).Msg("presence update dropped")
	}
}

// Close flushes the last update and closes the publisher.
func (n *Notifier) Close() error {
	close(n.done)
	<-n.stopped
	return n.pub.Close()
}
