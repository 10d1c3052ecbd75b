package player

import "time"

// Mock is a test double for Source. Events are delivered synchronously.
type Mock struct {
	url      string
	state    State
	volume   float64
	position time.Duration
	duration time.Duration
	playErr  error
	seekErr  error
	handler  func(Event)

	loadCalls []string
	playCalls int
	seekCalls []time.Duration
	stopCalls int
}

// NewMock creates a stopped mock at full volume.
func NewMock() *Mock {
	return &Mock{state: Stopped, volume: 1}
}

func (m *Mock) Load(url string) {
	m.loadCalls = append(m.loadCalls, url)
	m.url = url
	m.state = Paused
	m.position = 0
}

func (m *Mock) Play() error {
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if m.url == "" {
		return ErrNoSource
	}
	if m.state == Playing {
		return nil
	}
	m.state = Playing
	m.emit(Event{Type: EventPlay})
	return nil
}

func (m *Mock) Pause() {
	if m.state != Playing {
		return
	}
	m.state = Paused
	m.emit(Event{Type: EventPause, Position: m.position})
}

func (m *Mock) Stop() {
	m.stopCalls++
	wasPlaying := m.state == Playing
	m.state = Stopped
	m.url = ""
	m.position = 0
	m.duration = 0
	if wasPlaying {
		m.emit(Event{Type: EventPause})
	}
}

func (m *Mock) Seek(pos time.Duration) error {
	m.seekCalls = append(m.seekCalls, pos)
	if m.seekErr != nil {
		return m.seekErr
	}
	m.position = pos
	return nil
}

func (m *Mock) SetVolume(level float64) { m.volume = clampVolume(level) }

func (m *Mock) Volume() float64 { return m.volume }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) State() State { return m.state }

func (m *Mock) URL() string { return m.url }

func (m *Mock) SetHandler(fn func(Event)) { m.handler = fn }

func (m *Mock) emit(e Event) {
	if m.handler != nil {
		m.handler(e)
	}
}

// Test helpers

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) SetSeekError(err error) { m.seekErr = err }

func (m *Mock) SetState(s State) { m.state = s }

func (m *Mock) LoadCalls() []string { return m.loadCalls }

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

func (m *Mock) StopCalls() int { return m.stopCalls }

// SetDuration sets the duration and emits DurationChange.
func (m *Mock) SetDuration(d time.Duration) {
	m.duration = d
	m.emit(Event{Type: EventDurationChange, Duration: d})
}

// Advance moves the position and emits TimeUpdate.
func (m *Mock) Advance(pos time.Duration) {
	m.position = pos
	m.emit(Event{Type: EventTimeUpdate, Position: pos, Duration: m.duration})
}

// Finish moves to the end and emits Ended.
func (m *Mock) Finish() {
	m.position = m.duration
	m.state = Paused
	m.emit(Event{Type: EventEnded, Position: m.position, Duration: m.duration})
}

// Fail behaves like a source whose load or stream broke: the slot pauses on
// its URL and reports the error. The next Play retries.
func (m *Mock) Fail(err error) {
	m.state = Paused
	m.emit(Event{Type: EventError, Err: newPlaybackError("stream", m.url, err)})
}

// Emit delivers an arbitrary event, e.g. CanPlay, Waiting or Error.
func (m *Mock) Emit(e Event) { m.emit(e) }

var _ Source = (*Mock)(nil)
