package playback

import "time"

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Sends never block:
// a subscriber that falls behind loses events rather than stalling playback.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	SourceChanged   <-chan SourceChange
	RadioChanged    <-chan RadioChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	sourceCh   chan SourceChange
	radioCh    chan RadioChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		sourceCh:   make(chan SourceChange, eventBufferSize),
		radioCh:    make(chan RadioChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.SourceChanged = s.sourceCh
	s.RadioChanged = s.radioCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e unless the buffer is full.
func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}

func (s *Subscription) sendState(e StateChange)   { send(s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange)   { send(s.trackCh, e) }
func (s *Subscription) sendQueue(e QueueChange)   { send(s.queueCh, e) }
func (s *Subscription) sendMode(e ModeChange)     { send(s.modeCh, e) }
func (s *Subscription) sendSource(e SourceChange) { send(s.sourceCh, e) }
func (s *Subscription) sendRadio(e RadioChange)   { send(s.radioCh, e) }
func (s *Subscription) sendError(e ErrorEvent)    { send(s.errorCh, e) }

func (s *Subscription) sendPosition(pos, dur time.Duration) {
	send(s.positionCh, PositionChange{Position: pos, Duration: dur})
}
